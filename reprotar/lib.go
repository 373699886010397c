package reprotar

import (
	"github.com/anchore/reprotar/internal/log"
	"github.com/anchore/reprotar/reprotar/logger"
)

// note: lib name must be a single word, all lowercase
const LibraryName = "reprotar"

func SetLogger(logger logger.Logger) {
	log.Log = logger
}
