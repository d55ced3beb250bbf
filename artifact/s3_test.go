package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 以本地目录模拟 bucket，key 为相对路径。
type fakeS3 struct {
	dir  string
	mu   sync.Mutex
	keys []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	data, err := os.ReadFile(filepath.Join(f.dir, filepath.Base(key)))
	if err != nil {
		return nil, errors.New("NoSuchKey")
	}
	n := int64(len(data))
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(n),
		ContentRange:  aws.String(fmt.Sprintf("bytes 0-%d/%d", n-1, n)),
	}, nil
}

func TestS3Source_Load(t *testing.T) {
	fake := &fakeS3{dir: fixtureDir}
	src := NewS3SourceWithClient(fake, "models", "tagger/v3")
	assert.Equal(t, "s3://models/tagger/v3", src.Name())

	a, err := Load(context.Background(), src, Names{})
	require.NoError(t, err)
	assert.Equal(t, 6, a.Info().FeatureDim)
	assert.Contains(t, fake.keys, "tagger/v3/classifier.json")
}

func TestS3Source_Missing(t *testing.T) {
	src := NewS3SourceWithClient(&fakeS3{dir: t.TempDir()}, "models", "")
	_, err := src.Fetch(context.Background(), "vectorizer.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://models/vectorizer.json")
}
