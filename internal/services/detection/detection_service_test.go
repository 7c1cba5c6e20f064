package detection_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/curaious/finca/internal/services/authorization"
	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/status"
	"github.com/curaious/finca/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photo() *detection.Image {
	return &detection.Image{Filename: "hoja.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0xe0}}
}

func TestDetectionService_Create(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	tests := []struct {
		name    string
		userID  uuid.UUID
		plotID  uuid.UUID
		kind    string
		img     *detection.Image
		wantErr error
	}{
		{"outsider", fs.Outsider.ID, fs.Plot.ID, detection.KindDisease, photo(), authorization.ErrNotMember},
		{"unknown_kind", fs.Operator.ID, fs.Plot.ID, "plaga", photo(), detection.ErrUnknownKind},
		{"nil_image", fs.Operator.ID, fs.Plot.ID, detection.KindDisease, nil, detection.ErrEmptyImage},
		{"empty_image", fs.Operator.ID, fs.Plot.ID, detection.KindMaturity, &detection.Image{Filename: "vacia.jpg"}, detection.ErrEmptyImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Detection.Create(ctx, tt.userID, tt.plotID, tt.kind, tt.img)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, env.Classifier.Calls)

	d, err := env.Detection.Create(ctx, fs.Operator.ID, fs.Plot.ID, detection.KindDisease, photo())
	require.NoError(t, err)
	assert.Equal(t, "roya", d.Label)
	assert.InDelta(t, 0.92, d.Confidence, 1e-9)
	assert.Equal(t, status.Active, d.StatusName)
	assert.True(t, strings.HasPrefix(d.ImageKey, "detections/"+fs.Plot.ID.String()+"/"))
	assert.Contains(t, env.Images.Images, d.ImageKey)
	assert.Equal(t, 1, env.Classifier.Calls)

	env.Classifier.Err = errors.New("model offline")
	_, err = env.Detection.Create(ctx, fs.Operator.ID, fs.Plot.ID, detection.KindDeficiency, photo())
	require.Error(t, err)
	assert.Len(t, env.Images.Images, 1)
}

func TestDetectionService_ListDelete(t *testing.T) {
	ctx := context.Background()
	env := testutil.NewEnv()
	fs := env.NewFarmstead(t)

	d, err := env.Detection.Create(ctx, fs.Operator.ID, fs.Plot.ID, detection.KindMaturity, photo())
	require.NoError(t, err)

	list, err := env.Detection.ListByPlot(ctx, fs.Operator.ID, fs.Plot.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, env.Detection.Delete(ctx, fs.Operator.ID, d.ID), authorization.ErrMissingPermission)
	require.NoError(t, env.Detection.Delete(ctx, fs.Admin.ID, d.ID))
	assert.ErrorIs(t, env.Detection.Delete(ctx, fs.Admin.ID, d.ID), detection.ErrDetectionInactive)
	assert.ErrorIs(t, env.Detection.Delete(ctx, fs.Admin.ID, uuid.New()), detection.ErrDetectionNotFound)

	list, err = env.Detection.ListByPlot(ctx, fs.Operator.ID, fs.Plot.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
