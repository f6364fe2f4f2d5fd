package querybuilder

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// modelField is one exported struct field carrying a db tag.
type modelField struct {
	index  int
	column string
}

var modelFieldCache sync.Map // reflect.Type -> []modelField

// InsertModel builds a single-row INSERT from the db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// OnConflictUpdate renders an upsert suffix that overwrites every column
// except target and skip with the excluded row's value.
func OnConflictUpdate(target string, columns []string, skip ...string) string {
	updates := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == target || slices.Contains(skip, col) {
			continue
		}
		updates = append(updates, col+" = EXCLUDED."+col)
	}
	return "ON CONFLICT (" + target + ") DO UPDATE SET " + strings.Join(updates, ", ")
}

func columnsAndValuesFromModel(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	fields := fieldsOf(value.Type())
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
		vals = append(vals, value.Field(f.index).Interface())
	}
	return cols, vals, nil
}

func fieldsOf(typ reflect.Type) []modelField {
	if cached, ok := modelFieldCache.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, modelField{index: i, column: col})
	}

	modelFieldCache.Store(typ, fields)
	return fields
}
