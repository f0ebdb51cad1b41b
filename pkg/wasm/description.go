package wasm

// DescrKind is the kind of an imported WebAssembly entity.
type DescrKind string

const (
	DescrFunc   DescrKind = "func"
	DescrGlobal DescrKind = "global"
	DescrMemory DescrKind = "memory"
	DescrTable  DescrKind = "table"
)

// Limits bounds a memory or table import.
type Limits struct {
	Min int  `bson:"min" toml:"min"`
	Max *int `bson:"max,omitempty" toml:"max"`
}

// ImportDescr describes what a module import refers to. Only the fields that
// belong to Kind are set; the rest stay zero.
type ImportDescr struct {
	Kind        DescrKind `bson:"kind" toml:"kind"`
	ID          string    `bson:"id,omitempty" toml:"id"`
	Params      []string  `bson:"params" toml:"params"`
	Results     []string  `bson:"results" toml:"results"`
	ValType     string    `bson:"valtype,omitempty" toml:"valtype"`
	Mutable     bool      `bson:"mutable,omitempty" toml:"mutable"`
	ElementType string    `bson:"elementType,omitempty" toml:"element_type"`
	Limits      *Limits   `bson:"limits,omitempty" toml:"limits"`
}

// ModuleImportDescription is the import node produced by the wasm parser.
// Dependencies carry it verbatim and persist it without interpreting it.
type ModuleImportDescription struct {
	Module string      `bson:"module" toml:"module"`
	Name   string      `bson:"name" toml:"name"`
	Descr  ImportDescr `bson:"descr" toml:"descr"`
}
