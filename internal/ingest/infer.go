package ingest

import (
	"strconv"
	"strings"
)

// ColumnType is a physical column type the materializer can emit.
type ColumnType string

const (
	TypeBigint  ColumnType = "bigint"
	TypeDouble  ColumnType = "double precision"
	TypeBoolean ColumnType = "boolean"
	TypeText    ColumnType = "text"
)

// InferSchema derives one physical type per column from the string cells:
// the narrowest of bigint, double precision and boolean that every non-empty
// cell fits, else text. A column with no values at all stays text.
func InferSchema(frame *Frame) []ColumnType {
	types := make([]ColumnType, len(frame.Columns))
	for col := range frame.Columns {
		types[col] = inferColumn(frame, col)
	}
	return types
}

func inferColumn(frame *Frame, col int) ColumnType {
	isInt, isFloat, isBool := true, true, true
	nonEmpty := 0
	for _, row := range frame.Rows {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		nonEmpty++
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, err := strconv.ParseBool(strings.ToLower(cell)); err != nil {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}
	switch {
	case nonEmpty == 0:
		return TypeText
	case isInt:
		return TypeBigint
	case isFloat:
		return TypeDouble
	case isBool:
		return TypeBoolean
	default:
		return TypeText
	}
}

// ConvertCell turns a raw cell into the Go value matching the column type;
// empty cells become NULL.
func ConvertCell(cell string, columnType ColumnType) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	switch columnType {
	case TypeBigint:
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return cell
		}
		return v
	case TypeDouble:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return cell
		}
		return v
	case TypeBoolean:
		v, err := strconv.ParseBool(strings.ToLower(trimmed))
		if err != nil {
			return cell
		}
		return v
	default:
		return cell
	}
}
