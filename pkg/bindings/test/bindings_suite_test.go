package bindings_test

import (
	"context"
	"testing"

	"github.com/containers/lxd-bindings/internal/testdaemon"
	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

const busybox = "busybox"

var busyboxData = []byte("busybox unified image\n")

func TestBindings(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bindings Suite")
}

var _ = BeforeSuite(func() {
	logrus.SetLevel(logrus.WarnLevel)
})

type bindingTest struct {
	daemon *testdaemon.Daemon
	conn   context.Context
	// fingerprint of the seeded busybox image
	busybox string
}

func newBindingTest() *bindingTest {
	d, err := testdaemon.Start(GinkgoT().TempDir())
	Expect(err).ToNot(HaveOccurred())
	bt := bindingTest{
		daemon:  d,
		busybox: d.SeedImage(busybox, busyboxData),
	}
	bt.conn, err = bindings.NewConnection(context.Background(), d.URI())
	Expect(err).ToNot(HaveOccurred())
	return &bt
}

func (b *bindingTest) cleanup() {
	Expect(b.daemon.Close()).To(Succeed())
}

// createContainer creates a stopped container from the busybox image.
func (b *bindingTest) createContainer(name string) {
	spec := entities.ContainersPost{
		Name:   name,
		Source: entities.ContainerSource{Type: "image", Alias: busybox},
	}
	result, err := containers.Create(b.conn, spec, nil)
	Expect(err).ToNot(HaveOccurred())
	Expect(result.Succeeded()).To(BeTrue())
}

// runContainer creates a container and starts it.
func (b *bindingTest) runContainer(name string) {
	b.createContainer(name)
	Expect(containers.Start(b.conn, name, nil)).To(Succeed())
}
