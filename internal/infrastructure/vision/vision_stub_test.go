//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shot-coach/internal/domain/entity"
)

func TestStubs_ReturnDisabled(t *testing.T) {
	ctx := context.Background()

	_, err := NewVideoFrameSource(nil).Open(ctx, "clip.mp4")
	require.ErrorIs(t, err, ErrDisabled)

	poses := NewMoveNetProvider("m.onnx", 192, nil)
	require.Equal(t, entity.SpaceNormalized, poses.Space())
	_, err = poses.Infer(ctx, entity.Frame{})
	require.ErrorIs(t, err, ErrDisabled)

	_, ok, err := NewNetClassifier("m.onnx", "l.txt", 224, nil).Classify(ctx, entity.Frame{})
	require.False(t, ok)
	require.ErrorIs(t, err, ErrDisabled)
}
