package bindings_test

import (
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
)

var _ = Describe("LXD API Bindings", func() {
	boxedTrue, boxedFalse := new(bool), new(bool)
	*boxedTrue = true
	*boxedFalse = false

	It("verify simple setters", func() {
		boxedDuration := new(time.Duration)
		*boxedDuration = 10 * time.Second

		actual := new(containers.StateOptions).
			WithForce(true).WithStateful(false).WithActionTimeout(10 * time.Second)

		Expect(*actual).To(MatchAllFields(Fields{
			"Force":         Equal(boxedTrue),
			"Stateful":      Equal(boxedFalse),
			"ActionTimeout": Equal(boxedDuration),
			"Detach":        BeNil(),
			"Timeout":       BeNil(),
		}))

		Expect(actual.GetForce()).To(BeTrue())
		Expect(actual.GetStateful()).To(BeFalse())
		Expect(actual.GetDetach()).To(BeFalse())
		Expect(actual.Changed("Force")).To(BeTrue())
		Expect(actual.Changed("Detach")).To(BeFalse())
	})

	It("verify composite setters", func() {
		actual := new(images.UploadOptions).
			WithProperties(map[string]string{"os": "alpine"}).
			WithFilename("alpine.tar.gz")

		Expect(*actual).To(MatchAllFields(Fields{
			"Public":     BeNil(),
			"Filename":   PointTo(Equal("alpine.tar.gz")),
			"Properties": HaveKeyWithValue("os", "alpine"),
			"Detach":     BeNil(),
			"Timeout":    BeNil(),
		}))
	})

	It("verify zero values of unset options", func() {
		actual := new(containers.ExecOptions)
		Expect(actual.GetEnvironment()).To(BeNil())
		Expect(actual.GetWidth()).To(BeZero())
		Expect(actual.GetTimeout()).To(BeZero())
	})
})
