package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soldertec/site/internal/config"
)

type fakeClient struct {
	put     *s3.PutObjectInput
	body    string
	deleted []string
	err     error
}

func (f *fakeClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	in      *s3.GetObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.in = in
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Bucket + "/" + *in.Key}, nil
}

func newTestStore(t *testing.T, client *fakeClient, presigner *fakePresigner) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), config.StorageConfig{
		Endpoint: "https://proj.supabase.co/storage/v1/s3",
		Region:   "us-east-1",
		Bucket:   "blog-images",
	}, WithClient(client, presigner))
	require.NoError(t, err)
	return s
}

func TestPut(t *testing.T) {
	client := &fakeClient{}
	s := newTestStore(t, client, &fakePresigner{})

	obj, err := s.Put(context.Background(), "/posts/2026/10/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "posts/2026/10/a.jpg", obj.Key)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/s3/blog-images/posts/2026/10/a.jpg", obj.URL)
	assert.Equal(t, "blog-images", *client.put.Bucket)
	assert.Equal(t, "image/jpeg", *client.put.ContentType)
	assert.Equal(t, "jpeg", client.body)

	_, err = s.Put(context.Background(), "posts/../secret", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestPublicBaseURLWins(t *testing.T) {
	s, err := NewS3Store(context.Background(), config.StorageConfig{
		Region:        "us-east-1",
		Bucket:        "blog-images",
		PublicBaseURL: "https://proj.supabase.co/storage/v1/object/public/blog-images/",
	}, WithClient(&fakeClient{}, &fakePresigner{}))
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/blog-images/x.png", s.URL("x.png"))

	_, err = NewS3Store(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestDeleteIgnoresMissing(t *testing.T) {
	client := &fakeClient{}
	s := newTestStore(t, client, &fakePresigner{})
	require.NoError(t, s.Delete(context.Background(), "posts/a.jpg"))
	assert.Equal(t, []string{"posts/a.jpg"}, client.deleted)

	client.err = &smithy.GenericAPIError{Code: "NoSuchKey"}
	assert.NoError(t, s.Delete(context.Background(), "posts/a.jpg"))

	client.err = &smithy.GenericAPIError{Code: "AccessDenied"}
	assert.ErrorIs(t, s.Delete(context.Background(), "posts/a.jpg"), ErrAccessDenied)
}

func TestExists(t *testing.T) {
	client := &fakeClient{}
	s := newTestStore(t, client, &fakePresigner{})
	ok, err := s.Exists(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	client.err = &smithy.GenericAPIError{Code: "NotFound"}
	ok, err = s.Exists(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	client.err = errors.New("boom")
	_, err = s.Exists(context.Background(), "a.pdf")
	assert.Error(t, err)
}

func TestPresignGetUsesBucketAndTTL(t *testing.T) {
	presigner := &fakePresigner{}
	s := newTestStore(t, &fakeClient{}, presigner).Bucket("catalogs")

	url, err := s.PresignGet(context.Background(), "catalogo-es.pdf", 24*time.Hour, "catalogo.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/catalogs/catalogo-es.pdf", url)
	assert.Equal(t, 24*time.Hour, presigner.expires)
	assert.Equal(t, `attachment; filename="catalogo.pdf"`, *presigner.in.ResponseContentDisposition)
}

func TestCleanKey(t *testing.T) {
	for in, want := range map[string]string{
		"a/b.jpg":  "a/b.jpg",
		"/a/b.jpg": "a/b.jpg",
		`a\b.jpg`:  "a/b.jpg",
		" a.jpg ":  "a.jpg",
	} {
		got, err := CleanKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "/", "a//b", "../x", "a/./b"} {
		_, err := CleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}
