// Copyright © 2025 Meroxa, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcs

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/goccy/go-json"
	"github.com/matryer/is"
	"google.golang.org/api/option"
)

type fakeObject struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// fakeGCS serves single request multipart uploads of the JSON API.
type fakeGCS struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
	status  int
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
		return
	}
	// /upload/storage/v1/b/{bucket}/o
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/upload/storage/v1/b/"), "/")
	if r.Method != http.MethodPost || len(parts) != 2 || parts[1] != "o" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	var obj fakeObject
	meta, err := mr.NextPart()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := json.NewDecoder(meta).Decode(&obj); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	media, err := mr.NextPart()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(media)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	obj.Bucket = parts[0]
	f.objects[obj.Bucket+"/"+obj.Name] = string(body)
	f.types[obj.Bucket+"/"+obj.Name] = obj.ContentType

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(obj)
}

func newTestStore(t *testing.T, h http.Handler) *Store {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := New(context.Background(), log.Test(t), Config{Endpoint: srv.URL + "/storage/v1/"}, option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "users")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStore_Put(t *testing.T) {
	is := is.New(t)

	fake := &fakeGCS{objects: map[string]string{}, types: map[string]string{}}
	s := newTestStore(t, fake)

	content := `{"type":"RECORD","stream":"users","record":{"id":1}}` + "\n"
	err := s.Put(context.Background(), "b", "p/c/users/2024-01-02/users", writeFile(t, content))
	is.NoErr(err)

	is.Equal(fake.objects["b/p/c/users/2024-01-02/users"], content)
	is.Equal(fake.types["b/p/c/users/2024-01-02/users"], "application/x-ndjson")
}

func TestStore_PutRejected(t *testing.T) {
	is := is.New(t)

	fake := &fakeGCS{objects: map[string]string{}, types: map[string]string{}, status: http.StatusForbidden}
	s := newTestStore(t, fake)

	err := s.Put(context.Background(), "b", "p/c/users/2024-01-02/users", writeFile(t, "x\n"))
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "failed to finalize gs://b/p/c/users/2024-01-02/users"))
	is.Equal(len(fake.objects), 0)
}

func TestStore_PutMissingFile(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	s, err := New(ctx, log.Test(t), Config{Endpoint: "http://127.0.0.1:1/storage/v1/"}, option.WithoutAuthentication())
	is.NoErr(err)
	t.Cleanup(func() { is.NoErr(s.Close()) })

	err = s.Put(ctx, "b", "k", filepath.Join(t.TempDir(), "missing"))
	is.True(cerrors.Is(err, os.ErrNotExist))
}
