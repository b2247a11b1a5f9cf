package rebound

import (
	"time"

	"gopkg.in/yaml.v3"
)

type SerializableDate struct {
	time.Time
}

func (d *SerializableDate) UnmarshalYAML(value *yaml.Node) error {
	date, err := getDateErr(value.Value)
	if err != nil {
		return err
	}
	d.Time = date
	return nil
}

func (d SerializableDate) MarshalYAML() (interface{}, error) {
	return getDateString(d.Time), nil
}
