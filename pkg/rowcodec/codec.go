package rowcodec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MarshalRow converts a struct into its positional row fields
func MarshalRow[T any](model T) ([]string, error) {
	schema, err := SchemaFromModel(model)
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	row := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		fieldValue := v.Field(col.Field)

		switch col.Type {
		case TypeText, TypeDate:
			row = append(row, fieldValue.String())
		case TypeInt:
			row = append(row, strconv.FormatInt(fieldValue.Int(), 10))
		case TypeIntList:
			for i := 0; i < fieldValue.Len(); i++ {
				row = append(row, strconv.FormatInt(fieldValue.Index(i).Int(), 10))
			}
		}
	}

	return row, nil
}

// UnmarshalRow maps positional row fields onto a struct of type T.
// A row with the wrong number of fixed columns, an unparsable int or an
// invalid date is rejected. Unparsable entries of a trailing int list are
// dropped and returned as skipped so the caller can report them.
func UnmarshalRow[T any](fields []string) (T, []string, error) {
	var model T

	schema, err := SchemaFromModel(model)
	if err != nil {
		return model, nil, err
	}

	fixed := schema.FixedColumns()
	if schema.HasList() {
		if len(fields) < fixed {
			return model, nil, fmt.Errorf("expected at least %d fields, got %d", fixed, len(fields))
		}
	} else if len(fields) != fixed {
		return model, nil, fmt.Errorf("expected %d fields, got %d", fixed, len(fields))
	}

	result := reflect.New(reflect.TypeOf(model)).Elem()
	var skipped []string

	for i, col := range schema.Columns {
		field := result.Field(col.Field)

		if col.Type == TypeIntList {
			skipped = setIntList(field, fields[i:])
			continue
		}

		if err := setFieldValue(field, col.Type, fields[i]); err != nil {
			return model, nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
	}

	return result.Interface().(T), skipped, nil
}

// setFieldValue converts a row cell to the column's Go type and sets it on the field
func setFieldValue(field reflect.Value, colType string, cell string) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	switch colType {
	case TypeText:
		field.SetString(cell)

	case TypeDate:
		if _, err := time.Parse(DateLayout, cell); err != nil {
			return fmt.Errorf("failed to parse date: %w", err)
		}
		field.SetString(cell)

	case TypeInt:
		intVal, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	default:
		return fmt.Errorf("unsupported column type: %s", colType)
	}

	return nil
}

// setIntList fills a []int field from the remaining cells, returning cells that were not ints
func setIntList(field reflect.Value, cells []string) []string {
	var skipped []string
	values := reflect.MakeSlice(field.Type(), 0, len(cells))

	for _, cell := range cells {
		intVal, err := strconv.Atoi(strings.TrimSpace(cell))
		if err != nil {
			skipped = append(skipped, cell)
			continue
		}
		values = reflect.Append(values, reflect.ValueOf(intVal).Convert(field.Type().Elem()))
	}

	if values.Len() > 0 {
		field.Set(values)
	}
	return skipped
}
