package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Calibration / initialisation.
	InvalidParameter      Code = "invalid_parameter"
	CalibrationOutOfRange Code = "calibration_out_of_range"
	UnsupportedChip       Code = "unsupported_chip"

	// Registry.
	AddressInUse       Code = "address_in_use"
	InvalidDeviceIndex Code = "invalid_device_index"
	RegistryFull       Code = "registry_full"

	// Register protocol.
	ConversionTimeout  Code = "conversion_timeout"
	UnsupportedFeature Code = "unsupported_feature"

	// Persistence.
	NotFound Code = "not_found"

	Timeout Code = "timeout"
	Error   Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
