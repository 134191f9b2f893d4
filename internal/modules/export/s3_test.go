package export

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcfg "github.com/sacred-word/core/internal/config"
)

func testS3Options(endpoint string) appcfg.S3Options {
	return appcfg.S3Options{
		Endpoint:        endpoint,
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		Bucket:          "verses",
		Region:          "ap-south-1",
	}
}

func TestS3UploaderRejectsIncompleteConfig(t *testing.T) {
	opts := testS3Options("")
	opts.Bucket = ""
	_, err := newS3Uploader(opts)
	assert.Error(t, err)
}

func TestS3UploaderDefaultsToRegionalEndpoint(t *testing.T) {
	u, err := newS3Uploader(testS3Options(""))
	require.NoError(t, err)
	assert.Equal(t, "s3.ap-south-1.amazonaws.com", u.base.Host)
	assert.Equal(t, "/verses/exports/a.txt", u.objectURI("exports/a.txt"))
}

func TestS3UploaderUpload(t *testing.T) {
	payload := []byte("ধন্য সেই ব্যক্তি\n")

	var gotPath, gotAuth, gotHash, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotHash = r.Header.Get("X-Amz-Content-Sha256")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Amz-Date"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	u, err := newS3Uploader(testS3Options(server.URL))
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), "exports/2026/09/sacred-verses.txt", payload, "text/plain; charset=utf-8")
	require.NoError(t, err)

	assert.Equal(t, "/verses/exports/2026/09/sacred-verses.txt", gotPath)
	assert.Equal(t, server.URL+"/verses/exports/2026/09/sacred-verses.txt", url)
	assert.Equal(t, sha256Hex(payload), gotHash)
	assert.Equal(t, string(payload), gotBody)
	assert.Contains(t, gotAuth, "AWS4-HMAC-SHA256 Credential=AKIATEST/20260901/ap-south-1/s3/aws4_request")
	assert.Contains(t, gotAuth, "SignedHeaders="+signedHeaderList)
	assert.Contains(t, gotAuth, "Signature=")
}

func TestS3UploaderUploadFailureSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("AccessDenied"))
	}))
	defer server.Close()

	u, err := newS3Uploader(testS3Options(server.URL))
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "exports/a.txt", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
	assert.Contains(t, err.Error(), "AccessDenied")
}
