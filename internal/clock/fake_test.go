package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(time.Second, func() { fired = true })

	c.Advance(999 * time.Millisecond)
	assert.False(t, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Millisecond)
	assert.True(t, fired)
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, epoch.Add(time.Second), c.Now())
}

func TestFakeStopPreventsCallback(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Hour)
	assert.False(t, fired)
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestFakeNonPositiveDelayRunsImmediately(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(0, func() { fired = true })
	assert.True(t, fired)
	assert.False(t, timer.Stop())
}
