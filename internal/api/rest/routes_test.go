package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	app "shot-coach/internal/application"
	"shot-coach/internal/domain/entity"
	"shot-coach/internal/infrastructure/storage"
)

type fakeAnalyzer struct {
	err      error
	gotPath  string
	gotShot  string
	fileSeen bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, path, shotType string) (*entity.VideoReport, error) {
	f.gotPath, f.gotShot = path, shotType
	_, err := os.Stat(path)
	f.fileSeen = err == nil
	if f.err != nil {
		return nil, f.err
	}
	return &entity.VideoReport{
		ShotType: entity.NormalizeShotType(shotType),
		FPS:      30,
		Frames: []entity.FrameResult{{
			FrameIndex: 0,
			Keypoints:  map[entity.Landmark]entity.Point{entity.RightWrist: {X: 0.5, Y: 0.9}},
			Feedback:   []entity.Feedback{{Severity: entity.SeverityWarning, Message: "Serving arm should be straighter"}},
		}},
	}, nil
}

type fakeClassifier struct {
	label   string
	err     error
	gotPath string
}

func (f *fakeClassifier) Classify(ctx context.Context, path string) (string, error) {
	f.gotPath = path
	return f.label, f.err
}

func testConfig(t *testing.T, a *fakeAnalyzer, c *fakeClassifier) ServerConfig {
	return ServerConfig{
		Analyzer:       a,
		Classifier:     c,
		Store:          storage.NewTempVideoStore(t.TempDir()),
		MaxUploadBytes: 1024,
		RequestTimeout: time.Second,
		StartTime:      time.Now(),
	}
}

func multipartBody(t *testing.T, video []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if video != nil {
		fw, err := mw.CreateFormFile("file", "clip.mp4")
		require.NoError(t, err)
		_, err = fw.Write(video)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, cfg ServerConfig, path string, video []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, video, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	rr := httptest.NewRecorder()
	NewRouter(cfg).ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestClassifyShot_OK(t *testing.T) {
	clf := &fakeClassifier{label: "smash"}
	rr := do(t, testConfig(t, &fakeAnalyzer{}, clf), "/classify_shot", []byte("video"), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"shot_type":"smash"}`, rr.Body.String())
	require.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	// временный файл удалён после ответа
	_, err := os.Stat(clf.gotPath)
	require.True(t, os.IsNotExist(err))
}

func TestClassifyShot_TooLarge(t *testing.T) {
	clf := &fakeClassifier{label: "smash"}
	rr := do(t, testConfig(t, &fakeAnalyzer{}, clf), "/classify_shot", make([]byte, 1025), nil)

	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Equal(t, "FILE_TOO_LARGE", decodeError(t, rr).Code)
	require.Empty(t, clf.gotPath, "core must not run")
}

func TestClassifyShot_ExactLimitAccepted(t *testing.T) {
	clf := &fakeClassifier{label: "clear"}
	rr := do(t, testConfig(t, &fakeAnalyzer{}, clf), "/classify_shot", make([]byte, 1024), nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestClassifyShot_MissingFile(t *testing.T) {
	rr := do(t, testConfig(t, &fakeAnalyzer{}, &fakeClassifier{}), "/classify_shot", nil, map[string]string{"x": "y"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClassifyShot_NotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/classify_shot", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	NewRouter(testConfig(t, &fakeAnalyzer{}, &fakeClassifier{})).ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestComparePose_OK(t *testing.T) {
	an := &fakeAnalyzer{}
	rr := do(t, testConfig(t, an, &fakeClassifier{}), "/compare_pose", []byte("video"), map[string]string{"shot_type": "Serve"})

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, an.fileSeen)
	require.Equal(t, "Serve", an.gotShot)
	require.JSONEq(t, `{
		"shot_type": "serve",
		"fps": 30,
		"frames": [{
			"frame_index": 0,
			"keypoints": {"right_wrist": {"x": 0.5, "y": 0.9}},
			"feedback": [{"type": "warning", "message": "Serving arm should be straighter"}]
		}]
	}`, rr.Body.String())

	_, err := os.Stat(an.gotPath)
	require.True(t, os.IsNotExist(err))
}

func TestComparePose_MissingShotType(t *testing.T) {
	an := &fakeAnalyzer{}
	rr := do(t, testConfig(t, an, &fakeClassifier{}), "/compare_pose", []byte("video"), nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Empty(t, an.gotPath)
}

func TestComparePose_PipelineErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&app.PipelineError{Pipeline: "feedback", Stage: app.StageOpen, Frame: -1, Err: fmt.Errorf("%w: bad", app.ErrDecode)},
			http.StatusUnprocessableEntity, "UNDECODABLE_VIDEO"},
		{&app.PipelineError{Pipeline: "feedback", Stage: app.StagePose, Frame: 3, Err: fmt.Errorf("model crashed")},
			http.StatusBadGateway, "PIPELINE_FAILED"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{app.ErrNotConfigured, http.StatusServiceUnavailable, "NOT_CONFIGURED"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			an := &fakeAnalyzer{err: tc.err}
			rr := do(t, testConfig(t, an, &fakeClassifier{}), "/compare_pose", []byte("video"), map[string]string{"shot_type": "smash"})
			require.Equal(t, tc.status, rr.Code)
			require.Equal(t, tc.code, decodeError(t, rr).Code)

			_, err := os.Stat(an.gotPath)
			require.True(t, os.IsNotExist(err))
		})
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(testConfig(t, &fakeAnalyzer{}, &fakeClassifier{})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	rr := httptest.NewRecorder()
	NewRouter(testConfig(t, &fakeAnalyzer{}, &fakeClassifier{})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	cfg := testConfig(t, &fakeAnalyzer{}, &fakeClassifier{})
	cfg.Classifier = nil // nil-интерфейс паникует при вызове

	rr := do(t, cfg, "/classify_shot", []byte("video"), nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "INTERNAL_ERROR", decodeError(t, rr).Code)
}
