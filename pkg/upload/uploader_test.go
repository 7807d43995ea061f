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

package upload

import (
	"context"
	"testing"
	"time"

	"github.com/conduitio/conduit-target-s3/pkg/blob/mock"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/cerrors"
	"github.com/conduitio/conduit-target-s3/pkg/foundation/log"
	"github.com/conduitio/conduit-target-s3/pkg/partition"
	"github.com/matryer/is"
	"go.uber.org/mock/gomock"
)

func testKeys() KeyBuilder {
	return KeyBuilder{
		Prefix: "p",
		Client: "c",
		Now:    func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.Local) },
	}
}

func TestUploader_UploadAll(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	store := mock.NewStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), "b", "p/c/users/2024-05-06/users", "/tmp/ws/users").Return(nil),
		store.EXPECT().Put(gomock.Any(), "b", "p/c/orders/2024-05-06/orders", "/tmp/ws/orders").Return(nil),
	)

	u := NewUploader(log.Test(t), store, "b", testKeys(), Metrics{})
	err := u.UploadAll(ctx, []partition.File{
		{Key: "users", Path: "/tmp/ws/users", Records: 2, Size: 10},
		{Key: "orders", Path: "/tmp/ws/orders", Records: 1, Size: 5},
	})
	is.NoErr(err)
}

func TestUploader_UploadAllStopsAtFirstFailure(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	wantErr := cerrors.New("access denied")
	store := mock.NewStore(ctrl)
	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), "b", "p/c/a/2024-05-06/a", "/ws/a").Return(nil),
		store.EXPECT().Put(gomock.Any(), "b", "p/c/b/2024-05-06/b", "/ws/b").Return(wantErr),
	)
	// no call expected for partition "c"

	u := NewUploader(log.Test(t), store, "b", testKeys(), Metrics{})
	err := u.UploadAll(ctx, []partition.File{
		{Key: "a", Path: "/ws/a"},
		{Key: "b", Path: "/ws/b"},
		{Key: "c", Path: "/ws/c"},
	})
	is.True(cerrors.Is(err, ErrUpload))
}

func TestUploader_UploadAllCanceled(t *testing.T) {
	is := is.New(t)
	ctrl := gomock.NewController(t)
	store := mock.NewStore(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	u := NewUploader(log.Test(t), store, "b", testKeys(), Metrics{})
	err := u.UploadAll(ctx, []partition.File{{Key: "a", Path: "/ws/a"}})
	is.True(cerrors.Is(err, ErrUpload))
}

func TestUploader_UploadAllEmpty(t *testing.T) {
	is := is.New(t)
	ctrl := gomock.NewController(t)

	u := NewUploader(log.Test(t), mock.NewStore(ctrl), "b", testKeys(), Metrics{})
	is.NoErr(u.UploadAll(context.Background(), nil))
}
