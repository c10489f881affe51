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

// LUN is a block logical unit as returned by /api/storage/luns.
// Name is the full path, e.g. /vol/vol1/lun1.
type LUN struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Space struct {
		Size int64 `json:"size"`
	} `json:"space"`
}

type lunListResponse struct {
	Records []LUN `json:"records"`
}

// GetLUN looks up a LUN by path within an SVM.
func (c *Client) GetLUN(ctx context.Context, svmName, lunPath string) (*LUN, error) {
	query := url.Values{}
	query.Set("name", lunPath)
	query.Set("svm.name", svmName)
	query.Set("fields", "space.size")

	var response lunListResponse
	if err := c.get(ctx, "/api/storage/luns", query, &response); err != nil {
		return nil, fmt.Errorf("looking up LUN %q in SVM %q: %w", lunPath, svmName, err)
	}
	if len(response.Records) == 0 {
		return nil, fmt.Errorf("LUN %q in SVM %q: %w", lunPath, svmName, ErrNotFound)
	}

	return &response.Records[0], nil
}

// ResizeLUN sets the size of the LUN identified by uuid.
// The call is not retried on failure.
func (c *Client) ResizeLUN(ctx context.Context, uuid string, sizeBytes int64) error {
	body := map[string]any{
		"space": map[string]any{"size": sizeBytes},
	}
	if err := c.do(ctx, http.MethodPatch, "/api/storage/luns/"+uuid, nil, body, nil); err != nil {
		return fmt.Errorf("resizing LUN %s to %d bytes: %w", uuid, sizeBytes, err)
	}
	return nil
}
