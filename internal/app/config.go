package app

import (
	"time"

	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/utils"
)

type Config struct {
	JWTSecretKey           string
	AccessTokenTTL         time.Duration
	FirstSuperuserEmail    string
	FirstSuperuserPassword string
	UsersOpenRegistration  bool
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	firstSuperuserEmail := utils.GetEnv("FIRST_SUPERUSER_EMAIL", "", log)
	firstSuperuserPassword := utils.GetEnv("FIRST_SUPERUSER_PASSWORD", "", log)
	usersOpenRegistration := utils.GetEnvAsBool("USERS_OPEN_REGISTRATION", false, log)
	return Config{
		JWTSecretKey:           jwtSecretKey,
		AccessTokenTTL:         time.Duration(accessTokenTTLSeconds) * time.Second,
		FirstSuperuserEmail:    firstSuperuserEmail,
		FirstSuperuserPassword: firstSuperuserPassword,
		UsersOpenRegistration:  usersOpenRegistration,
	}
}
