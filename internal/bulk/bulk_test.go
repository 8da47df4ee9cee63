package bulk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleter(fail map[int]bool, calls *[]int) DeleteFunc[int] {
	return func(_ context.Context, id int) error {
		*calls = append(*calls, id)
		if fail[id] {
			return errors.New("hypervisor refused")
		}
		return nil
	}
}

func TestRunDeletesSequentially(t *testing.T) {
	var calls []int
	report := Run(context.Background(), []int{3, 1, 2}, deleter(nil, &calls), Options[int]{})

	assert.Equal(t, []int{3, 1, 2}, calls)
	assert.Equal(t, []int{3, 1, 2}, report.Deleted())
	assert.Empty(t, report.Failed())
	assert.True(t, report.OK())
	assert.NoError(t, report.Err())
}

func TestRunHaltStopsAtFirstFailure(t *testing.T) {
	var calls []int
	report := Run(context.Background(), []int{1, 2, 3, 4}, deleter(map[int]bool{2: true}, &calls), Options[int]{Policy: Halt})

	assert.Equal(t, []int{1, 2}, calls)
	assert.Equal(t, []int{1}, report.Deleted())
	assert.Equal(t, []int{2}, report.Failed())
	assert.Equal(t, []int{3, 4}, report.Skipped())
	assert.False(t, report.OK())
	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), "2: hypervisor refused")
}

func TestRunContinueAttemptsEverything(t *testing.T) {
	var calls []int
	report := Run(context.Background(), []int{1, 2, 3, 4}, deleter(map[int]bool{2: true, 3: true}, &calls), Options[int]{Policy: Continue})

	assert.Equal(t, []int{1, 2, 3, 4}, calls)
	assert.Equal(t, []int{1, 4}, report.Deleted())
	assert.Equal(t, []int{2, 3}, report.Failed())
	assert.Empty(t, report.Skipped())
}

func TestRunCancelBetweenItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls []string
	del := func(_ context.Context, id string) error {
		calls = append(calls, id)
		if id == "b" {
			cancel()
		}
		return nil
	}

	report := Run(ctx, []string{"a", "b", "c", "d"}, del, Options[string]{Policy: Continue})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.True(t, report.Canceled)
	assert.Equal(t, []string{"c", "d"}, report.Skipped())
	assert.ErrorIs(t, report.Err(), context.Canceled)
}

func TestRunKeepsDeadlineError(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	var calls []int

	report := Run(ctx, []int{1, 2}, deleter(nil, &calls), Options[int]{})
	assert.Empty(t, calls)
	assert.True(t, report.Canceled)
	assert.Equal(t, []int{1, 2}, report.Skipped())
	assert.ErrorIs(t, report.Err(), context.DeadlineExceeded)
	assert.NotErrorIs(t, report.Err(), context.Canceled)
}

func TestRunReportsProgress(t *testing.T) {
	var seen [][2]int
	var calls []int
	Run(context.Background(), []int{7, 8}, deleter(nil, &calls), Options[int]{
		OnProgress: func(done, total int, res Result[int]) {
			seen = append(seen, [2]int{done, total})
			assert.Equal(t, Done, res.Outcome)
		},
	})
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, seen)
}

func TestRunEmptyQueue(t *testing.T) {
	var calls []int
	report := Run(context.Background(), nil, deleter(nil, &calls), Options[int]{})
	assert.Empty(t, calls)
	assert.Empty(t, report.Results)
	assert.True(t, report.OK())
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, Halt, PolicyFor(false))
	assert.Equal(t, Continue, PolicyFor(true))
	assert.Equal(t, "halt", Halt.String())
	assert.Equal(t, "skipped", Skipped.String())
}
