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

package resize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fsxops/fsxops/pkg/maintenance"
	"github.com/fsxops/fsxops/pkg/ontap"
	"github.com/fsxops/fsxops/pkg/sizing"
)

// Config drives a resize run.
type Config struct {
	VServer string
	Volume  string
	LUNPath string

	// SizeBytes is the requested new volume size. The contained LUN is
	// grown to 95% of it.
	SizeBytes int64

	Window maintenance.Window
}

// API is the slice of the ONTAP client the resize flow needs.
type API interface {
	GetVolume(ctx context.Context, svmName, volumeName string) (*ontap.Volume, error)
	ResizeVolume(ctx context.Context, uuid string, sizeBytes int64) error
	GetLUN(ctx context.Context, svmName, lunPath string) (*ontap.LUN, error)
	ResizeLUN(ctx context.Context, uuid string, sizeBytes int64) error
}

// Run grows the volume to the requested size and then the contained LUN
// proportionally. The steps are strictly sequential and fail fast: a
// failed volume resize leaves the LUN untouched.
func Run(ctx context.Context, api API, cfg Config, logger *zap.SugaredLogger) error {
	open, err := cfg.Window.IsOpen(time.Now())
	if err != nil {
		return err
	}
	if !open {
		return fmt.Errorf("maintenance window %q is closed, refusing to resize", cfg.Window.Schedule)
	}

	lunSize := sizing.LUNSizeFor(cfg.SizeBytes)

	volume, err := api.GetVolume(ctx, cfg.VServer, cfg.Volume)
	if err != nil {
		return err
	}
	logger.Infow("resizing volume",
		"volume", cfg.Volume, "uuid", volume.UUID,
		"currentBytes", volume.Size, "newBytes", cfg.SizeBytes)
	if err := api.ResizeVolume(ctx, volume.UUID, cfg.SizeBytes); err != nil {
		return err
	}

	lun, err := api.GetLUN(ctx, cfg.VServer, cfg.LUNPath)
	if err != nil {
		return err
	}
	logger.Infow("resizing LUN",
		"lun", cfg.LUNPath, "uuid", lun.UUID,
		"currentBytes", lun.Space.Size, "newBytes", lunSize)
	if err := api.ResizeLUN(ctx, lun.UUID, lunSize); err != nil {
		return err
	}

	logger.Infow("resize complete",
		"volumeBytes", cfg.SizeBytes, "lunBytes", lunSize)

	return nil
}
