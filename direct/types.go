package direct

import "github.com/infinivision/blockaccess/base"

// direct performs positional I/O on a single file. Blocks returned by
// Allocate and Read are private copies; only Write changes storage.
type direct struct {
	*base.Base
}
