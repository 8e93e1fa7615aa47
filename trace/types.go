package trace

import (
	"github.com/infinivision/blockaccess/block"
	"github.com/nnsgmsone/damrey/logger"
)

// tracer logs every operation of the wrapped store.
type tracer struct {
	a   block.Access
	log logger.Log
}
