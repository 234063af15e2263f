package hir

import "fmt"

// Language tags which side of the bridge a node or mapping belongs to
type Language uint8

const (
	Front  Language = iota // dynamic front-end language
	Native                 // language the front-end runtime is implemented in
	Target                 // systems output language
)

func (l Language) String() string {
	switch l {
	case Front:
		return "Python"
	case Native:
		return "C"
	case Target:
		return "Rust"
	}
	return fmt.Sprintf("Language(%d)", l)
}

// ParseLanguage accepts both the display names and the role names
func ParseLanguage(s string) (Language, error) {
	switch s {
	case "Python", "python", "front":
		return Front, nil
	case "C", "c", "native":
		return Native, nil
	case "Rust", "rust", "target":
		return Target, nil
	}
	return 0, fmt.Errorf("unknown language %q", s)
}

// SourceLocation points at the place a node was parsed from
type SourceLocation struct {
	File     string
	Line     uint32
	Column   uint32
	Language Language
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type Visibility uint8

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	case Protected:
		return "protected"
	}
	return "?"
}

// StorageClass is the declared storage of a native declaration
type StorageClass uint8

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageTypedef
	StorageAuto
	StorageRegister
)

func (s StorageClass) String() string {
	switch s {
	case StorageStatic:
		return "static"
	case StorageExtern:
		return "extern"
	case StorageTypedef:
		return "typedef"
	case StorageAuto:
		return "auto"
	case StorageRegister:
		return "register"
	}
	return ""
}
