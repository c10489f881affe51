/*
Copyright The FSxOps Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ontap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Volume is an ONTAP FlexVol as returned by /api/storage/volumes.
type Volume struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type volumeListResponse struct {
	Records []Volume `json:"records"`
}

// GetVolume looks up a volume by name within an SVM.
func (c *Client) GetVolume(ctx context.Context, svmName, volumeName string) (*Volume, error) {
	query := url.Values{}
	query.Set("name", volumeName)
	query.Set("svm.name", svmName)
	query.Set("fields", "size")

	var response volumeListResponse
	if err := c.get(ctx, "/api/storage/volumes", query, &response); err != nil {
		return nil, fmt.Errorf("looking up volume %q in SVM %q: %w", volumeName, svmName, err)
	}
	if len(response.Records) == 0 {
		return nil, fmt.Errorf("volume %q in SVM %q: %w", volumeName, svmName, ErrNotFound)
	}

	return &response.Records[0], nil
}

// ResizeVolume sets the size of the volume identified by uuid.
// The call is not retried on failure.
func (c *Client) ResizeVolume(ctx context.Context, uuid string, sizeBytes int64) error {
	body := map[string]any{"size": sizeBytes}
	if err := c.do(ctx, http.MethodPatch, "/api/storage/volumes/"+uuid, nil, body, nil); err != nil {
		return fmt.Errorf("resizing volume %s to %d bytes: %w", uuid, sizeBytes, err)
	}
	return nil
}
