package bindings_test

import (
	"net/http"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LXD operations", func() {
	var (
		bt *bindingTest
	)

	BeforeEach(func() {
		bt = newBindingTest()
	})

	AfterEach(func() {
		bt.cleanup()
	})

	createDetached := func(name string) string {
		result, err := containers.Create(bt.conn, entities.ContainersPost{Name: name, Source: entities.ContainerSource{Type: "none"}},
			new(containers.CreateOptions).WithDetach(true))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.IsAsync()).To(BeTrue())
		return result.ID()
	}

	It("async request completes through wait", func() {
		id := createDetached("first")

		req, _ := bt.daemon.LastRequest(http.MethodPost)
		Expect(req.Path).To(Equal("/1.0/containers"))

		result, err := operations.Wait(bt.conn, id, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Succeeded()).To(BeTrue())
		Expect(result.Operation.StatusCode).To(Equal(http.StatusOK))
	})

	It("operation listing groups by status", func() {
		bt.daemon.Hold(true)
		running := createDetached("first")
		bt.daemon.Hold(false)
		done := createDetached("second")
		_, err := operations.Wait(bt.conn, done, nil)
		Expect(err).ToNot(HaveOccurred())

		ops, err := operations.List(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(ops).To(HaveKeyWithValue("running", []string{running}))
		Expect(ops).To(HaveKeyWithValue("success", []string{done}))
	})

	It("wait with zero timeout on a pending operation", func() {
		bt.daemon.Hold(true)
		id := createDetached("first")

		result, err := operations.Wait(bt.conn, id, new(operations.WaitOptions).WithTimeout(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Done()).To(BeFalse())
		Expect(result.Operation.Status).To(Equal(entities.OperationRunning))
	})

	It("poll until released", func() {
		bt.daemon.Hold(true)
		id := createDetached("first")
		time.AfterFunc(200*time.Millisecond, func() { _ = bt.daemon.Release(id) })

		result, err := operations.Poll(bt.conn, id, new(operations.PollOptions).WithInterval(20*time.Millisecond))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Succeeded()).To(BeTrue())
		Expect(bt.daemon.ContainerStatus("first")).To(Equal("Stopped"))
	})

	It("wait on several operations", func() {
		ids := []string{createDetached("first"), createDetached("second")}
		results, err := operations.WaitAll(bt.conn, ids, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].ID()).To(Equal(ids[0]))
		Expect(results[1].Succeeded()).To(BeTrue())
	})

	It("delete of missing resource is not found before any operation", func() {
		err := containers.Remove(bt.conn, "foobar5000", new(containers.RemoveOptions).WithRetries(0))
		Expect(bindings.IsNotFound(err)).To(BeTrue())

		ops, err := operations.List(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(ops).To(BeEmpty())
	})
})
