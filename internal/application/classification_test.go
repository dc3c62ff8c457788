package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shot-coach/internal/domain/entity"
)

func TestClassificationService_Majority(t *testing.T) {
	src := newFakeSource(4)
	clf := &fakeClassifier{failAt: -1, votes: []vote{
		{"smash", 0.9, true},
		{"", 0, false},
		{"smash", 0.8, true},
		{"clear", 0.7, true},
	}}

	svc := NewClassificationService(src, clf, nil, 0)
	label, err := svc.Classify(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, "smash", label)

	votes, err := NewClassificationService(newFakeSource(4), &fakeClassifier{failAt: -1, votes: clf.votes}, nil, 0).
		Votes(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, []string{"smash", "smash", "clear"}, votes)
}

func TestClassificationService_NoVotesIsUnknown(t *testing.T) {
	svc := NewClassificationService(newFakeSource(3), &fakeClassifier{failAt: -1}, nil, 0)
	label, err := svc.Classify(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, entity.UnknownShot, label)

	svc = NewClassificationService(newFakeSource(0), &fakeClassifier{failAt: -1}, nil, 0)
	label, err = svc.Classify(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, entity.UnknownShot, label)
}

func TestClassificationService_MinConfidence(t *testing.T) {
	clf := &fakeClassifier{failAt: -1, votes: []vote{
		{"clear", 0.2, true},
		{"clear", 0.3, true},
		{"smash", 0.9, true},
	}}
	svc := NewClassificationService(newFakeSource(3), clf, nil, 0.5)
	label, err := svc.Classify(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.Equal(t, "smash", label)
}

func TestClassificationService_FailureIsTyped(t *testing.T) {
	src := newFakeSource(3)
	clf := &fakeClassifier{failAt: 1, votes: []vote{{"smash", 1, true}}}

	label, err := NewClassificationService(src, clf, nil, 0).Classify(context.Background(), "clip.mp4")
	require.Empty(t, label)
	require.ErrorIs(t, err, ErrInfrastructure)

	var perr *PipelineError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, StageClassify, perr.Stage)
	require.Equal(t, 1, perr.Frame)
	require.Equal(t, 1, src.closedCount())
}

func TestClassificationService_ConcurrentRequests(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clf := &fakeClassifier{failAt: -1, votes: []vote{{"serve", 1, true}, {"serve", 1, true}, {"smash", 1, true}}}
			label, err := NewClassificationService(newFakeSource(3), clf, nil, 0).Classify(context.Background(), "clip.mp4")
			assert.NoError(t, err)
			assert.Equal(t, "serve", label)
		}()
	}
	wg.Wait()
}

func TestClassificationService_NotConfigured(t *testing.T) {
	_, err := NewClassificationService(nil, nil, nil, 0).Classify(context.Background(), "clip.mp4")
	require.ErrorIs(t, err, ErrNotConfigured)
}
