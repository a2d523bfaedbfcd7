package bindings_test

import (
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Binding types", func() {
	It("serialize container list options", func() {
		opts := new(containers.ListOptions).WithFilter("status eq Running")
		params, err := opts.ToParams()
		Expect(err).ToNot(HaveOccurred())
		Expect(params.Get("filter")).To(Equal("status eq Running"))
	})

	It("client side options never reach the query", func() {
		opts := new(containers.RemoveOptions).WithIgnore(true).WithRetries(3).WithDetach(true).WithTimeout(time.Second)
		params, err := opts.ToParams()
		Expect(err).ToNot(HaveOccurred())
		Expect(params).To(BeEmpty())

		waitOpts := new(operations.WaitOptions).WithTimeout(time.Second)
		params, err = waitOpts.ToParams()
		Expect(err).ToNot(HaveOccurred())
		Expect(params).To(BeEmpty())
	})

	It("serialize image export options", func() {
		opts := new(images.ExportOptions).WithSecret("s3cr3t")
		params, err := opts.ToParams()
		Expect(err).ToNot(HaveOccurred())
		Expect(params.Encode()).To(Equal("secret=s3cr3t"))

		params, err = new(images.ExportOptions).ToParams()
		Expect(err).ToNot(HaveOccurred())
		Expect(params.Has("secret")).To(BeFalse())
	})
})
