package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appcfg "github.com/sacred-word/core/internal/config"
)

// The export document is a single small text file, so the uploader only
// speaks path-style PUT with SigV4. Headers signed, in order:
const signedHeaderList = "content-type;host;x-amz-content-sha256;x-amz-date"

type s3Uploader struct {
	base      *url.URL
	bucket    string
	region    string
	accessKey string
	secretKey string
	client    *http.Client
	now       func() time.Time
}

func newS3Uploader(opts appcfg.S3Options) (*s3Uploader, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	base, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid s3 endpoint: %s", endpoint)
	}

	return &s3Uploader{
		base:      base,
		bucket:    bucket,
		region:    region,
		accessKey: accessKey,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 45 * time.Second},
		now:       time.Now,
	}, nil
}

// Upload PUTs the payload under bucket/objectKey and returns the object URL.
// The object key is generated by this package and must not start with "/".
func (u *s3Uploader) Upload(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error) {
	uri := u.objectURI(objectKey)
	target := u.base.Scheme + "://" + u.base.Host + uri

	now := u.now().UTC()
	amzDate := now.Format("20060102T150405Z")
	payloadHash := sha256Hex(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("Authorization", u.authorization(uri, contentType, payloadHash, now))

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return "", fmt.Errorf("s3 upload failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return target, nil
}

func (u *s3Uploader) objectURI(objectKey string) string {
	segments := []string{url.PathEscape(u.bucket)}
	for _, seg := range strings.Split(strings.Trim(objectKey, "/"), "/") {
		if seg != "" {
			segments = append(segments, url.PathEscape(seg))
		}
	}
	return strings.TrimSuffix(u.base.Path, "/") + "/" + strings.Join(segments, "/")
}

func (u *s3Uploader) authorization(uri, contentType, payloadHash string, now time.Time) string {
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	canonicalRequest := strings.Join([]string{
		http.MethodPut,
		uri,
		"",
		"content-type:" + contentType,
		"host:" + u.base.Host,
		"x-amz-content-sha256:" + payloadHash,
		"x-amz-date:" + amzDate,
		"",
		signedHeaderList,
		payloadHash,
	}, "\n")

	scope := dateStamp + "/" + u.region + "/s3/aws4_request"
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	key := hmacSHA256([]byte("AWS4"+u.secretKey), dateStamp)
	key = hmacSHA256(key, u.region)
	key = hmacSHA256(key, "s3")
	key = hmacSHA256(key, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	return "AWS4-HMAC-SHA256 Credential=" + u.accessKey + "/" + scope +
		", SignedHeaders=" + signedHeaderList +
		", Signature=" + signature
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(data))
	return mac.Sum(nil)
}
