package config

// ScenarioFileExtensions are all recognized scenario file extensions
var ScenarioFileExtensions = []string{".yaml", ".yml"}

// SupportedScenarioFormat is the semver constraint a scenario's `format` must satisfy.
const SupportedScenarioFormat = "^1.0"

// IsTestMode indicates if the program is running in test mode.
// Synthetic variable names are printed without their uniqueness suffix then.
var IsTestMode = false

// Lattice extremes
const (
	NothingTypeName = "Nothing"
	AnyTypeName     = "Any"
)

// Function type names understood by the type expression parser
const (
	FunctionTypeName        = "Function"
	ReflectFunctionTypeName = "KFunction"
)

// Synthetic type variable names
const (
	LambdaReturnVariableName            = "_R"
	CallableReferenceReturnVariableName = "_Q"
)

// MaxIncorporationDepth bounds transitive constraint incorporation in the
// reference constraint system.
const MaxIncorporationDepth = 64

// Settings file names searched by FindSettings, in order
var SettingsFileNames = []string{"callinfer.yaml", "callinfer.yml", "callinfer.toml"}
