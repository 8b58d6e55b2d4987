package config

// Version is reported by `streem --version`.
const Version = "0.3.0"

const SourceFileExt = ".strm"

// ConfigFileName is looked up from the script directory upwards.
const ConfigFileName = "streem.yaml"

// DefaultChunkSize is the read size of file sources.
const DefaultChunkSize = 64 * 1024

// DefaultMaxDepth bounds evaluator recursion.
const DefaultMaxDepth = 10000

// Standard stream names bound in every global scope
const (
	StdinName  = "STDIN"
	StdoutName = "STDOUT"
	StderrName = "STDERR"
)

// Built-in function names
const (
	SeqFuncName     = "seq"
	NumberFuncName  = "number"
	StringFuncName  = "string"
	BooleanFuncName = "boolean"
	FileFuncName    = "file"
	PrintFuncName   = "print"
	CollectFuncName = "collect"
	AfterFuncName   = "after"
	RecordFuncName  = "record"
	LenFuncName     = "len"
)

// Property and method names resolved by member access
const (
	LengthProp  = "length"
	PathProp    = "path"
	TTYProp     = "tty"
	SplitMethod = "split"
	TrimMethod  = "trim"
	JoinMethod  = "join"
)
