package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shhac/probe/internal/domain"
	apperrors "github.com/shhac/probe/internal/errors"
	"github.com/shhac/probe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detectEndpoint = "/api/v1/detect/resume"

// recordingView captures every call the controller makes.
type recordingView struct {
	mu            sync.Mutex
	events        []string
	fileName      string
	fileSize      string
	uploadVisible bool
	runEnabled    bool
	submitting    bool
	outcomes      []domain.Outcome
}

func (v *recordingView) record(event string) {
	v.events = append(v.events, event)
}

func (v *recordingView) ShowFile(name, size string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("file")
	v.fileName, v.fileSize = name, size
}

func (v *recordingView) SetUploadVisible(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("upload-visible")
	v.uploadVisible = visible
}

func (v *recordingView) SetRunEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("run-enabled")
	v.runEnabled = enabled
}

func (v *recordingView) ShowSubmitting() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("submitting")
	v.submitting = true
}

func (v *recordingView) ShowOutcome(outcome domain.Outcome) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("outcome")
	v.submitting = false
	v.outcomes = append(v.outcomes, outcome)
}

func (v *recordingView) hasEvent(event string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range v.events {
		if e == event {
			return true
		}
	}
	return false
}

func (v *recordingView) lastOutcome(t *testing.T) domain.Outcome {
	t.Helper()
	v.mu.Lock()
	defer v.mu.Unlock()
	require.NotEmpty(t, v.outcomes, "no outcome rendered")
	return v.outcomes[len(v.outcomes)-1]
}

// fakeTransport answers with canned responses and records what it was asked.
type fakeTransport struct {
	mu sync.Mutex

	response  *domain.Response
	err       error
	sample    *domain.File
	sampleErr error

	// onSend, when set, runs at the start of Health and Upload.
	onSend func()

	healthCalls int
	uploads     []upload
}

type upload struct {
	endpoint string
	file     *domain.File
}

func (f *fakeTransport) Health(ctx context.Context) (*domain.Response, error) {
	if f.onSend != nil {
		f.onSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthCalls++
	return f.response, f.err
}

func (f *fakeTransport) Upload(ctx context.Context, endpoint string, file *domain.File) (*domain.Response, error) {
	if f.onSend != nil {
		f.onSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, upload{endpoint: endpoint, file: file})
	return f.response, f.err
}

func (f *fakeTransport) FetchSample(ctx context.Context, name string) (*domain.File, error) {
	return f.sample, f.sampleErr
}

func okResponse(body string) *domain.Response {
	return &domain.Response{StatusCode: 200, Status: "200 OK", OK: true, Body: []byte(body)}
}

func newTestController(transport *fakeTransport, endpoint string) (*Controller, *recordingView) {
	view := &recordingView{}
	return NewController(transport, view, logging.NewNopLogger(), endpoint), view
}

func waitSettled(t *testing.T, done <-chan struct{}) {
	t.Helper()
	require.NotNil(t, done, "run did not start")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not settle")
	}
}

func TestController_InitialState(t *testing.T) {
	t.Run("upload endpoint without file", func(t *testing.T) {
		c, view := newTestController(&fakeTransport{}, detectEndpoint)
		assert.True(t, view.uploadVisible)
		assert.False(t, view.runEnabled)
		assert.False(t, c.RunEnabled())
		assert.Equal(t, StateIdle, c.Snapshot().State)
	})

	t.Run("health endpoint", func(t *testing.T) {
		c, view := newTestController(&fakeTransport{}, domain.HealthPath)
		assert.False(t, view.uploadVisible)
		assert.True(t, view.runEnabled)
		assert.True(t, c.RunEnabled())
	})
}

func TestController_RunEnabledRules(t *testing.T) {
	c, view := newTestController(&fakeTransport{}, detectEndpoint)

	// Health is enabled regardless of file, and hides upload controls
	c.SelectEndpoint(domain.HealthPath)
	assert.True(t, view.runEnabled)
	assert.False(t, view.uploadVisible)

	// Back to an upload endpoint with no file
	c.SelectEndpoint("/api/v1/verify/contact")
	assert.False(t, view.runEnabled)
	assert.True(t, view.uploadVisible)

	c.SelectFile(domain.NewFile("cv.pdf", "", []byte("x")))
	assert.True(t, view.runEnabled)

	// The file survives endpoint switches
	c.SelectEndpoint(domain.HealthPath)
	c.SelectEndpoint(detectEndpoint)
	assert.True(t, view.runEnabled)
	assert.Equal(t, "cv.pdf", c.Snapshot().File.Name)
}

func TestController_SelectFile_Display(t *testing.T) {
	c, view := newTestController(&fakeTransport{}, detectEndpoint)

	c.SelectFile(domain.NewFile("a.bin", "", make([]byte, 2048)))
	assert.Equal(t, "a.bin", view.fileName)
	assert.Equal(t, "2.0 KB", view.fileSize)

	// Replacing the file updates the display
	c.SelectFile(domain.NewFile("b.txt", "", make([]byte, 512)))
	assert.Equal(t, "b.txt", view.fileName)
	assert.Equal(t, "0.5 KB", view.fileSize)
}

func TestController_SelectFile_NilIgnored(t *testing.T) {
	c, view := newTestController(&fakeTransport{}, detectEndpoint)
	c.SelectFile(nil)
	assert.False(t, view.hasEvent("file"))
	assert.Nil(t, c.Snapshot().File)
}

func TestController_RunTest_DisabledDoesNothing(t *testing.T) {
	transport := &fakeTransport{response: okResponse(`{}`)}
	c, view := newTestController(transport, detectEndpoint)

	assert.Nil(t, c.RunTest(context.Background()))
	assert.False(t, view.hasEvent("submitting"))
	assert.Empty(t, transport.uploads)
}

func TestController_RunTest_ShowsSubmittingBeforeSending(t *testing.T) {
	transport := &fakeTransport{response: okResponse(`{"ok":true}`)}
	c, view := newTestController(transport, domain.HealthPath)

	var submittingAtSend bool
	transport.onSend = func() {
		submittingAtSend = view.hasEvent("submitting")
	}

	done := c.RunTest(context.Background())
	// Visible before the run settles
	assert.True(t, view.hasEvent("submitting"))

	waitSettled(t, done)
	assert.True(t, submittingAtSend, "submitting state must be rendered before the request is sent")
}

func TestController_RunTest_HealthSuccess(t *testing.T) {
	transport := &fakeTransport{response: okResponse(`{"ok":true}`)}
	c, view := newTestController(transport, domain.HealthPath)

	waitSettled(t, c.RunTest(context.Background()))

	outcome := view.lastOutcome(t)
	assert.Equal(t, "Status: 200 OK", outcome.StatusLine)
	assert.True(t, outcome.Success)
	assert.Equal(t, "{\n  \"ok\": true\n}", outcome.Body)
	assert.NoError(t, outcome.Err)

	assert.Equal(t, 1, transport.healthCalls)
	assert.Empty(t, transport.uploads)
	assert.Equal(t, StateSuccess, c.Snapshot().State)
}

func TestController_RunTest_UploadsSelectedFile(t *testing.T) {
	transport := &fakeTransport{response: okResponse(`{"risk_level":"low"}`)}
	c, _ := newTestController(transport, detectEndpoint)

	file := domain.NewFile("cv.pdf", "application/pdf", []byte("%PDF"))
	c.SelectFile(file)
	waitSettled(t, c.RunTest(context.Background()))

	require.Len(t, transport.uploads, 1)
	assert.Equal(t, detectEndpoint, transport.uploads[0].endpoint)
	assert.Same(t, file, transport.uploads[0].file)
	assert.Zero(t, transport.healthCalls)
}

func TestController_RunTest_NonSuccessStatus(t *testing.T) {
	transport := &fakeTransport{response: &domain.Response{
		StatusCode: 422,
		Status:     "422 Unprocessable Entity",
		Body:       []byte(`{"detail":"bad file"}`),
	}}
	c, view := newTestController(transport, detectEndpoint)
	c.SelectFile(domain.NewFile("x.exe", "", []byte{0}))

	waitSettled(t, c.RunTest(context.Background()))

	outcome := view.lastOutcome(t)
	assert.Equal(t, "Status: 422 Unprocessable Entity", outcome.StatusLine)
	assert.False(t, outcome.Success)
	assert.Equal(t, "{\n  \"detail\": \"bad file\"\n}", outcome.Body)
	assert.Equal(t, StateFailure, c.Snapshot().State)
}

func TestController_RunTest_TransportFailure(t *testing.T) {
	transport := &fakeTransport{err: errors.New("network down")}
	c, view := newTestController(transport, domain.HealthPath)

	waitSettled(t, c.RunTest(context.Background()))

	outcome := view.lastOutcome(t)
	assert.Equal(t, "Error: Request failed", outcome.StatusLine)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Error: network down", outcome.Body)
	assert.EqualError(t, outcome.Err, "network down")
}

func TestController_RunTest_InvalidJSONIsAFailure(t *testing.T) {
	transport := &fakeTransport{response: okResponse("<html>oops</html>")}
	c, view := newTestController(transport, domain.HealthPath)

	waitSettled(t, c.RunTest(context.Background()))

	outcome := view.lastOutcome(t)
	assert.Equal(t, FailedStatusLine, outcome.StatusLine)
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, apperrors.ErrInvalidJSON)
	assert.Contains(t, outcome.Body, "Error: invalid JSON response")
}

func TestController_RunTest_Elapsed(t *testing.T) {
	transport := &fakeTransport{response: okResponse(`{}`)}
	c, view := newTestController(transport, domain.HealthPath)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var calls int
	var clockMu sync.Mutex
	c.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1234 * time.Millisecond)
	}

	waitSettled(t, c.RunTest(context.Background()))

	outcome := view.lastOutcome(t)
	assert.Equal(t, 1234*time.Millisecond, outcome.Elapsed)
	assert.Equal(t, "1.23s", domain.FormatElapsed(outcome.Elapsed))
}

func TestController_RunTest_LatestRunWins(t *testing.T) {
	release := make(chan struct{})
	first := true
	var mu sync.Mutex

	transport := &fakeTransport{}
	transport.onSend = func() {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		if isFirst {
			<-release
		}
	}
	transport.response = okResponse(`{"run":"any"}`)
	c, view := newTestController(transport, domain.HealthPath)

	slow := c.RunTest(context.Background())
	// Make sure the first run is in flight before starting the second
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return !first
	}, 5*time.Second, 5*time.Millisecond)

	fast := c.RunTest(context.Background())
	waitSettled(t, fast)

	close(release)
	waitSettled(t, slow)

	view.mu.Lock()
	rendered := len(view.outcomes)
	view.mu.Unlock()
	assert.Equal(t, 1, rendered, "the superseded run must not be rendered")
	assert.NotNil(t, c.Snapshot().Last)
}

func TestController_LoadSample(t *testing.T) {
	sample := domain.NewFile("sample_resume.pdf", "application/pdf", make([]byte, 4096))
	transport := &fakeTransport{sample: sample}
	c, view := newTestController(transport, detectEndpoint)

	require.NoError(t, c.LoadSample(context.Background(), "sample_resume.pdf"))
	assert.Same(t, sample, c.Snapshot().File)
	assert.Equal(t, "sample_resume.pdf", view.fileName)
	assert.Equal(t, "4.0 KB", view.fileSize)
	assert.True(t, view.runEnabled)
}

func TestController_LoadSample_FailureLeavesStateUnchanged(t *testing.T) {
	transport := &fakeTransport{
		response:  okResponse(`{"ok":true}`),
		sampleErr: apperrors.ErrSampleUnavailable,
	}
	c, view := newTestController(transport, detectEndpoint)

	previous := domain.NewFile("mine.txt", "", []byte("hello"))
	c.SelectFile(previous)
	waitSettled(t, c.RunTest(context.Background()))

	view.mu.Lock()
	eventsBefore := len(view.events)
	view.mu.Unlock()
	before := c.Snapshot()

	err := c.LoadSample(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, apperrors.ErrSampleUnavailable)

	after := c.Snapshot()
	assert.Same(t, previous, after.File)
	assert.Equal(t, before.Last.StatusLine, after.Last.StatusLine)

	view.mu.Lock()
	defer view.mu.Unlock()
	assert.Len(t, view.events, eventsBefore, "view must not be touched")
	assert.Equal(t, "mine.txt", view.fileName)
}

func TestController_LoadSample_FailureWithNoFile(t *testing.T) {
	transport := &fakeTransport{sampleErr: errors.New("dial tcp: connection refused")}
	c, view := newTestController(transport, detectEndpoint)

	assert.Error(t, c.LoadSample(context.Background(), "sample_resume.txt"))
	assert.Nil(t, c.Snapshot().File)
	assert.False(t, view.runEnabled)
}

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"object", `{"ok":true}`, "{\n  \"ok\": true\n}"},
		{"keeps key order", `{"b":1,"a":2}`, "{\n  \"b\": 1,\n  \"a\": 2\n}"},
		{"nested", `{"a":[1,{"b":null}]}`, "{\n  \"a\": [\n    1,\n    {\n      \"b\": null\n    }\n  ]\n}"},
		{"surrounding whitespace", "\n {\"ok\":true} \n", "{\n  \"ok\": true\n}"},
		{"empty object", `{}`, `{}`},
		{"scalar", `"healthy"`, `"healthy"`},
		{"numbers verbatim", `{"score":0.0,"n":1e2}`, "{\n  \"score\": 0.0,\n  \"n\": 1e2\n}"},
		{"duplicate keys kept", `{"a":1,"a":2}`, "{\n  \"a\": 1,\n  \"a\": 2\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prettyJSON([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrettyJSON_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"a":`} {
		_, err := prettyJSON([]byte(raw))
		assert.ErrorIs(t, err, apperrors.ErrInvalidJSON, "input %q", raw)
	}
}

func TestRunState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Submitting", StateSubmitting.String())
	assert.Equal(t, "Success", StateSuccess.String())
	assert.Equal(t, "Failure", StateFailure.String())
	assert.Equal(t, "Unknown", RunState(9).String())
}
