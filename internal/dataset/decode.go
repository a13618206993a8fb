package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrDecode indicates a payload could not be interpreted as dataset rows.
var ErrDecode = errors.New("failed to decode dataset payload")

// parseFeatures converts a datasets-server "features" array into a schema.
//
//	[{"feature_idx":0,"name":"text","type":{"dtype":"string","_type":"Value"}},
//	 {"feature_idx":1,"name":"label","type":{"names":["neg","pos"],"_type":"ClassLabel"}}]
func parseFeatures(features gjson.Result) ([]Column, error) {
	if !features.IsArray() {
		return nil, fmt.Errorf("%w: features is not an array", ErrDecode)
	}

	var columns []Column
	var err error
	features.ForEach(func(_, feature gjson.Result) bool {
		name := feature.Get("name").String()
		if name == "" {
			err = fmt.Errorf("%w: feature without name: %s", ErrDecode, feature.Raw)
			return false
		}
		columns = append(columns, columnFromFeatureType(name, feature.Get("type")))
		return true
	})
	return columns, err
}

// columnFromFeatureType maps a datasets feature type to a ColumnType.
func columnFromFeatureType(name string, typ gjson.Result) Column {
	col := Column{Name: name, Type: TypeOther}

	switch typ.Get("_type").String() {
	case "ClassLabel":
		col.Type = TypeClassLabel
		for _, n := range typ.Get("names").Array() {
			col.Labels = append(col.Labels, n.String())
		}
	case "Value":
		dtype := typ.Get("dtype").String()
		switch {
		case dtype == "string" || dtype == "large_string":
			col.Type = TypeString
		case dtype == "bool":
			col.Type = TypeBool
		case strings.HasPrefix(dtype, "int") || strings.HasPrefix(dtype, "uint"):
			col.Type = TypeInt
		case strings.HasPrefix(dtype, "float"):
			col.Type = TypeFloat
		}
	}
	return col
}

// decodeRow reads the cells of one record object in schema order.
// Keys missing from the object decode as nil.
func decodeRow(columns []Column, record gjson.Result) (Row, error) {
	if !record.IsObject() {
		return nil, fmt.Errorf("%w: row is not an object: %.80s", ErrDecode, record.Raw)
	}
	row := make(Row, len(columns))
	for i, col := range columns {
		cell, err := decodeCell(col, record.Get(gjson.Escape(col.Name)))
		if err != nil {
			return nil, err
		}
		row[i] = cell
	}
	return row, nil
}

// decodeCell converts one JSON value according to its column type.
func decodeCell(col Column, v gjson.Result) (any, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}

	switch col.Type {
	case TypeString:
		if v.Type != gjson.String {
			return nil, fmt.Errorf("%w: column %q: want string, got %s", ErrDecode, col.Name, v.Raw)
		}
		return v.String(), nil
	case TypeInt, TypeClassLabel:
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%w: column %q: want integer, got %s", ErrDecode, col.Name, v.Raw)
		}
		return v.Int(), nil
	case TypeFloat:
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%w: column %q: want number, got %s", ErrDecode, col.Name, v.Raw)
		}
		return v.Float(), nil
	case TypeBool:
		if v.Type != gjson.True && v.Type != gjson.False {
			return nil, fmt.Errorf("%w: column %q: want boolean, got %s", ErrDecode, col.Name, v.Raw)
		}
		return v.Bool(), nil
	default:
		return v.Raw, nil
	}
}

// inferColumnType guesses a column type from a JSON value, used for sources
// that carry no schema.
func inferColumnType(v gjson.Result) ColumnType {
	switch v.Type {
	case gjson.String:
		return TypeString
	case gjson.True, gjson.False:
		return TypeBool
	case gjson.Number:
		f := v.Float()
		if f == math.Trunc(f) && !strings.ContainsAny(v.Raw, ".eE") {
			return TypeInt
		}
		return TypeFloat
	default:
		return TypeOther
	}
}
