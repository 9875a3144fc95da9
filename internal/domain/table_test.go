package domain

import (
	"reflect"
	"strings"
	"testing"
)

// The registry row's physical table name is baked into raw SQL (joins and
// FK DDL), so it must stay stable regardless of how the struct evolves.
func TestTableRegistryPhysicalName(t *testing.T) {
	if got := (Table{}).TableName(); got != "table_registry" {
		t.Fatalf("expected physical name table_registry, got %q", got)
	}
}

func TestTableNameColumnMapping(t *testing.T) {
	field, ok := reflect.TypeOf(Table{}).FieldByName("Name")
	if !ok {
		t.Fatal("Table is missing the Name field")
	}
	if !strings.Contains(field.Tag.Get("gorm"), "column:table_name") {
		t.Fatalf("Name must map to the table_name column, gorm tag is %q", field.Tag.Get("gorm"))
	}
	if field.Tag.Get("json") != "table_name" {
		t.Fatalf("Name must serialize as table_name, json tag is %q", field.Tag.Get("json"))
	}
}
