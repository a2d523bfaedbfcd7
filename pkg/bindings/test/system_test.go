package bindings_test

import (
	"context"
	"net/http"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/system"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LXD connection", func() {
	var (
		bt *bindingTest
	)

	BeforeEach(func() {
		bt = newBindingTest()
	})

	AfterEach(func() {
		bt.cleanup()
	})

	It("server info", func() {
		info, err := system.Info(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.APIVersion).To(Equal("1.0"))
		Expect(info.Auth).To(Equal("trusted"))
		Expect(info.Environment.Server).To(Equal("lxd"))

		version, err := system.Version(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(version).To(Equal("1.0.0"))
	})

	It("request on cancelled context results in error", func() {
		ctx, cancel := context.WithCancel(bt.conn)
		cancel()
		_, err := system.Info(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("server error is an API error", func() {
		bt.daemon.InjectError(http.MethodGet, "/1.0/containers", http.StatusInternalServerError, 1)
		_, err := containers.Names(bt.conn)
		var apiErr *bindings.APIError
		Expect(err).To(BeAssignableToTypeOf(apiErr))
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusInternalServerError))

		// The transport is still usable
		_, err = containers.Names(bt.conn)
		Expect(err).ToNot(HaveOccurred())
	})
})
