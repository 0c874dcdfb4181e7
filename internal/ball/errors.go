package ball

import "errors"

// ErrParameterBounds indicates a parameter value is outside its valid range.
var ErrParameterBounds = errors.New("ball: parameter out of valid bounds")
