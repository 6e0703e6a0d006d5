package rowcodec

import (
	"fmt"
	"reflect"
	"strings"
)

// Column types understood by the codec
const (
	TypeText    = "text"
	TypeInt     = "int"
	TypeDate    = "date"
	TypeIntList = "intlist" // variadic trailing columns, must be the last column
)

// DateLayout is the layout date columns must match. It mirrors model.DateLayout;
// the codec only checks the shape and the model owns date parsing.
const DateLayout = "2006-01-02"

// Column defines a positional column with name and type
type Column struct {
	Name  string
	Type  string
	Field int // index of the struct field backing the column
}

// Schema defines the positional layout of a row struct
type Schema struct {
	Name    string
	Columns []Column
}

// FixedColumns returns the number of columns before any variadic list column
func (s *Schema) FixedColumns() int {
	if s.HasList() {
		return len(s.Columns) - 1
	}
	return len(s.Columns)
}

// HasList reports whether the last column is a variadic int list
func (s *Schema) HasList() bool {
	return len(s.Columns) > 0 && s.Columns[len(s.Columns)-1].Type == TypeIntList
}

// SchemaFromModel builds a Schema by reflecting on a struct definition
// Fields must have `row_header:"column_name"` and `row_type:"column_type"` tags
// Column order follows field order
func SchemaFromModel(model interface{}) (*Schema, error) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, fmt.Errorf("model must be a struct, got nil")
	}

	// Handle pointer to struct
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	columns := make([]Column, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		header := field.Tag.Get("row_header")
		if header == "" {
			return nil, fmt.Errorf("field %s.%s missing 'row_header' tag", t.Name(), field.Name)
		}

		typeTag := field.Tag.Get("row_type")
		if typeTag == "" {
			return nil, fmt.Errorf("field %s.%s missing 'row_type' tag", t.Name(), field.Name)
		}

		if err := checkFieldKind(field, typeTag); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}

		if len(columns) > 0 && columns[len(columns)-1].Type == TypeIntList {
			return nil, fmt.Errorf("field %s.%s follows an %s column; %s must be last", t.Name(), field.Name, TypeIntList, TypeIntList)
		}

		columns = append(columns, Column{
			Name:  header,
			Type:  typeTag,
			Field: i,
		})
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("struct %s has no fields", t.Name())
	}

	return &Schema{
		Name:    toSnakeCase(t.Name()),
		Columns: columns,
	}, nil
}

// checkFieldKind verifies the Go field type can hold the declared column type
func checkFieldKind(field reflect.StructField, typeTag string) error {
	kind := field.Type.Kind()
	switch typeTag {
	case TypeText, TypeDate:
		if kind != reflect.String {
			return fmt.Errorf("%s column requires a string field, got %s", typeTag, kind)
		}
	case TypeInt:
		switch kind {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return fmt.Errorf("int column requires an integer field, got %s", kind)
		}
	case TypeIntList:
		if kind != reflect.Slice || field.Type.Elem().Kind() != reflect.Int {
			return fmt.Errorf("intlist column requires a []int field, got %s", field.Type)
		}
	default:
		return fmt.Errorf("unsupported column type '%s'", typeTag)
	}
	return nil
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
