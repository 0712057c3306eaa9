package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionResult(t *testing.T) {
	t.Parallel()

	result := newVersionResult()

	assert.Equal(t, runtime.Version(), result.GoVersion)
	assert.Equal(t, []string{"elastic-index-read", "elastic-index-clear"}, result.StreamKinds)

	output := result.GetOutput()
	assert.Contains(t, output, "[ELASTICDB VERSION]")
	assert.Contains(t, output, "elastic-index-read, elastic-index-clear")
}
