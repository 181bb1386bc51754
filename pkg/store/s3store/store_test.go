package s3store_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/store/s3store"
	"github.com/goliatone/go-formbuilder/pkg/store/storetest"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	getErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(append([]byte(nil), data...)))}, nil
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Contract(t *testing.T) {
	storetest.Run(t, s3store.NewWithAPI(newFakeBucket(), "forms-bucket", "library"))
}

func TestS3Store_ObjectLayout(t *testing.T) {
	bucket := newFakeBucket()
	s := s3store.NewWithAPI(bucket, "forms-bucket", "tenant")

	require.NoError(t, s.Save(context.Background(), store.KeyForms, []byte(`[]`)))

	require.Equal(t, []byte(`[]`), bucket.objects["forms-bucket/tenant/forms.json"])
	require.Equal(t, "application/json", bucket.types["forms-bucket/tenant/forms.json"])
}

func TestS3Store_LoadErrorIsWrapped(t *testing.T) {
	bucket := newFakeBucket()
	bucket.getErr = errors.New("access denied")
	s := s3store.NewWithAPI(bucket, "b", "")

	_, err := s.Load(context.Background(), store.KeyForms)
	require.ErrorContains(t, err, "access denied")
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestS3Store_NewRequiresBucket(t *testing.T) {
	_, err := s3store.New(context.Background(), s3store.Config{})
	require.Error(t, err)
}
