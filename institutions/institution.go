package institutions

import "fmt"

// Kind is the type of organisation staff belong to
type Kind string

const (
	KindHospital Kind = "hospital"
	KindClinic   Kind = "clinic"
	KindLab      Kind = "lab"
)

// Institution is a hospital, clinic or lab. Staff records and tokens are
// scoped to one institution.
type Institution struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (i *Institution) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("institution name is required")
	}
	switch i.Kind {
	case KindHospital, KindClinic, KindLab:
		return nil
	}
	return fmt.Errorf("unknown institution kind %q", i.Kind)
}
