package models

// Club is one entry of the club reference vocabulary.
type Club struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	UserAdded bool   `json:"userAdded" yaml:"-"`
}
