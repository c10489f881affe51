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
	"errors"
	"fmt"

	"go.uber.org/zap/zaptest"

	"github.com/fsxops/fsxops/pkg/maintenance"
	"github.com/fsxops/fsxops/pkg/ontap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type resizeCall struct {
	uuid string
	size int64
}

type fakeAPI struct {
	volume *ontap.Volume
	lun    *ontap.LUN

	getVolumeErr    error
	resizeVolumeErr error
	getLUNErr       error
	resizeLUNErr    error

	calls         []string
	volumeResizes []resizeCall
	lunResizes    []resizeCall
}

func (f *fakeAPI) GetVolume(_ context.Context, svmName, volumeName string) (*ontap.Volume, error) {
	f.calls = append(f.calls, "GetVolume")
	if f.getVolumeErr != nil {
		return nil, f.getVolumeErr
	}
	if f.volume == nil {
		return nil, fmt.Errorf("volume %q in SVM %q: %w", volumeName, svmName, ontap.ErrNotFound)
	}
	return f.volume, nil
}

func (f *fakeAPI) ResizeVolume(_ context.Context, uuid string, sizeBytes int64) error {
	f.calls = append(f.calls, "ResizeVolume")
	f.volumeResizes = append(f.volumeResizes, resizeCall{uuid: uuid, size: sizeBytes})
	return f.resizeVolumeErr
}

func (f *fakeAPI) GetLUN(_ context.Context, svmName, lunPath string) (*ontap.LUN, error) {
	f.calls = append(f.calls, "GetLUN")
	if f.getLUNErr != nil {
		return nil, f.getLUNErr
	}
	if f.lun == nil {
		return nil, fmt.Errorf("LUN %q in SVM %q: %w", lunPath, svmName, ontap.ErrNotFound)
	}
	return f.lun, nil
}

func (f *fakeAPI) ResizeLUN(_ context.Context, uuid string, sizeBytes int64) error {
	f.calls = append(f.calls, "ResizeLUN")
	f.lunResizes = append(f.lunResizes, resizeCall{uuid: uuid, size: sizeBytes})
	return f.resizeLUNErr
}

var _ = Describe("Run", func() {
	var (
		api *fakeAPI
		cfg Config
	)

	BeforeEach(func() {
		api = &fakeAPI{
			volume: &ontap.Volume{UUID: "vol-uuid", Name: "vol1", Size: 50 << 30},
			lun:    &ontap.LUN{UUID: "lun-uuid", Name: "/vol/vol1/lun1"},
		}
		cfg = Config{
			VServer:   "svm1",
			Volume:    "vol1",
			LUNPath:   "/vol/vol1/lun1",
			SizeBytes: 100 << 30,
		}
	})

	run := func() error {
		return Run(context.Background(), api, cfg, zaptest.NewLogger(GinkgoT()).Sugar())
	}

	It("grows the volume first and then the LUN to 95% of it", func() {
		Expect(run()).To(Succeed())

		Expect(api.calls).To(Equal([]string{
			"GetVolume", "ResizeVolume", "GetLUN", "ResizeLUN",
		}))
		Expect(api.volumeResizes).To(Equal([]resizeCall{
			{uuid: "vol-uuid", size: 100 << 30},
		}))
		Expect(api.lunResizes).To(Equal([]resizeCall{
			{uuid: "lun-uuid", size: int64(float64(100<<30) * 0.95)},
		}))
	})

	It("leaves the LUN untouched when the volume resize fails", func() {
		api.resizeVolumeErr = errors.New("insufficient space in aggregate")

		Expect(run()).To(MatchError(api.resizeVolumeErr))
		Expect(api.calls).To(Equal([]string{"GetVolume", "ResizeVolume"}))
		Expect(api.lunResizes).To(BeEmpty())
	})

	It("stops before any resize when the volume is not found", func() {
		api.volume = nil

		Expect(run()).To(MatchError(ontap.ErrNotFound))
		Expect(api.calls).To(Equal([]string{"GetVolume"}))
	})

	It("surfaces a LUN lookup failure after the volume was grown", func() {
		api.lun = nil

		Expect(run()).To(MatchError(ontap.ErrNotFound))
		Expect(api.calls).To(Equal([]string{"GetVolume", "ResizeVolume", "GetLUN"}))
		Expect(api.volumeResizes).To(HaveLen(1))
		Expect(api.lunResizes).To(BeEmpty())
	})

	It("surfaces a LUN resize failure", func() {
		api.resizeLUNErr = errors.New("lun is mapped")

		Expect(run()).To(MatchError(api.resizeLUNErr))
		Expect(api.calls).To(Equal([]string{
			"GetVolume", "ResizeVolume", "GetLUN", "ResizeLUN",
		}))
	})

	It("refuses to run outside the maintenance window", func() {
		// A window that can never be open right now: it opened for one
		// nanosecond at the most recent midnight.
		cfg.Window = maintenance.Window{
			Schedule: "0 0 0 * * *",
			Duration: 1,
		}

		err := run()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("maintenance window"))
		Expect(api.calls).To(BeEmpty())
	})

	It("rejects a malformed maintenance schedule without touching the cluster", func() {
		cfg.Window = maintenance.Window{Schedule: "bogus"}

		Expect(run()).To(HaveOccurred())
		Expect(api.calls).To(BeEmpty())
	})
})
