package evaluator

type ObjectType string

const (
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	NULL_OBJ     = "NULL"
	ARRAY_OBJ    = "ARRAY"
	BYTES_OBJ    = "BYTES"    // binary chunk read from a file
	RECORD_OBJ   = "RECORD"   // mutable string-keyed bag
	FUNCTION_OBJ = "FUNCTION" // closure from a block literal
	BUILTIN_OBJ  = "BUILTIN"
	FILE_OBJ     = "FILE"
	STAGE_OBJ    = "STAGE"
	ERROR_OBJ    = "ERROR"
	END_OBJ      = "END" // end-of-stream marker, never a program value
)

type Object interface {
	Type() ObjectType
	Inspect() string
}
