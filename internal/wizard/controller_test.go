package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestController_NextClampsAtReview(t *testing.T) {
	c := NewController()
	for i := 0; i < 10; i++ {
		c.Next()
	}
	assert.Equal(t, StepReview, c.Current())
	assert.True(t, c.IsLast())
}

func TestController_BackClampsAtBasic(t *testing.T) {
	c := NewController()
	c.Next()
	assert.Equal(t, StepBasic, c.Back())
	assert.Equal(t, StepBasic, c.Back())
	assert.True(t, c.IsFirst())
}

func TestController_CreateOnlyOnReview(t *testing.T) {
	c := NewController()
	assert.False(t, c.Create())
	assert.False(t, c.Created())

	for c.Current() != StepReview {
		c.Next()
	}
	assert.True(t, c.Create())
	assert.True(t, c.Created())
}

func TestStepNames(t *testing.T) {
	assert.Equal(t, "Basic Information", StepBasic.Name())
	assert.Equal(t, "Review & Create", StepReview.Name())
	assert.Equal(t, "sample", StepSampleSize.ID())
	assert.Empty(t, Step(9).Name())
	assert.Len(t, Steps(), StepCount)
}
