package shellerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleError_Error() {
	fmt.Println(Policy(DangerousCommand, "rm"))
	fmt.Println(Newf(KindResourceLimit, PipelineTooLong, "", "%d stages, max %d", 12, 10))

	// Output: policy violation: dangerous command: "rm"
	// resource limit exceeded: pipeline too long (12 stages, max 10)
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("stage 1: %w", Policy(PathTraversal, "../etc"))

	assert.True(t, errors.Is(err, ErrPolicy))
	assert.True(t, errors.Is(err, PathTraversal))
	assert.False(t, errors.Is(err, ErrResourceLimit))
	assert.False(t, errors.Is(err, DangerousCommand))
	assert.Equal(t, KindPolicy, KindOf(err))
	assert.Equal(t, PathTraversal, RuleOf(err))
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(KindFileSystem, OpenFailed, "in.txt", fs.ErrNotExist)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, ErrFileSystem))
	assert.Contains(t, err.Error(), `"in.txt"`)
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Rule(""), RuleOf(nil))
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
