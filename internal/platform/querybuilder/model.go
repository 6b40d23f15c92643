package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT for one struct row. Columns come from
// `db` tags on exported fields, in declaration order. The suffix is
// appended verbatim and typically carries an ON CONFLICT clause.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert needs a table")
	}
	cols, vals, err := taggedColumns(model)
	if err != nil {
		return "", nil, err
	}

	var s stmt
	s.sql.WriteString("INSERT INTO ")
	s.sql.WriteString(table)
	s.sql.WriteString(" (")
	s.sql.WriteString(strings.Join(cols, ", "))
	s.sql.WriteString(") VALUES (")
	for i, v := range vals {
		if i > 0 {
			s.sql.WriteString(", ")
		}
		s.sql.WriteString(s.bind(v))
	}
	s.sql.WriteString(")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		s.sql.WriteString(" ")
		s.sql.WriteString(suffix)
	}
	return s.sql.String(), s.args, nil
}

func taggedColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
