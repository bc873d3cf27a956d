package config

import (
	"fmt"
	"reflect"
)

type field struct {
	key      string
	required bool
	index    int
}

func (f field) value(cfg *Config) string {
	v := reflect.ValueOf(cfg).Elem().Field(f.index)
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func configFields() []field {
	t := reflect.TypeOf(Config{})
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key := sf.Tag.Get("koanf")
		if key == "" || key == "-" {
			continue
		}
		fields = append(fields, field{
			key:      key,
			required: sf.Tag.Get("required") == "true",
			index:    i,
		})
	}
	return fields
}
