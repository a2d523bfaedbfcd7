package bindings_test

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LXD containers", func() {
	var (
		bt *bindingTest
	)

	BeforeEach(func() {
		bt = newBindingTest()
	})

	AfterEach(func() {
		bt.cleanup()
	})

	It("create and inspect container", func() {
		bt.createContainer("first")

		data, err := containers.Inspect(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(data.Name).To(Equal("first"))
		Expect(data.Status).To(Equal("Stopped"))
		Expect(data.Profiles).To(Equal([]string{"default"}))

		req, ok := bt.daemon.LastRequest(http.MethodPost)
		Expect(ok).To(BeTrue())
		Expect(req.Path).To(Equal("/1.0/containers"))
		Expect(string(req.Body)).To(ContainSubstring(`"alias":"busybox"`))
	})

	It("inspect missing container returns not found", func() {
		_, err := containers.Inspect(bt.conn, "foobar5000")
		Expect(err).To(HaveOccurred())
		Expect(bindings.IsNotFound(err)).To(BeTrue())
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusNotFound))

		exists, err := containers.Exists(bt.conn, "foobar5000")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("create from missing image fails the operation", func() {
		spec := entities.ContainersPost{
			Name:   "broken",
			Source: entities.ContainerSource{Type: "image", Alias: "foobar5000"},
		}
		result, err := containers.Create(bt.conn, spec, nil)
		Expect(err).To(HaveOccurred())
		var opErr *operations.OperationError
		Expect(err).To(BeAssignableToTypeOf(opErr))
		Expect(result.Operation.Status).To(Equal(entities.OperationFailure))
		Expect(err.Error()).To(ContainSubstring("foobar5000"))
	})

	It("create with duplicate name is a conflict", func() {
		bt.createContainer("first")
		_, err := containers.Create(bt.conn, entities.ContainersPost{Name: "first", Source: entities.ContainerSource{Type: "none"}}, nil)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusConflict))
	})

	It("detached create returns the pending operation", func() {
		bt.daemon.Hold(true)
		result, err := containers.Create(bt.conn, entities.ContainersPost{Name: "first", Source: entities.ContainerSource{Type: "none"}},
			new(containers.CreateOptions).WithDetach(true))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Done()).To(BeFalse())
		Expect(result.ID()).ToNot(BeEmpty())

		Expect(bt.daemon.Release(result.ID())).To(Succeed())
		result, err = operations.Wait(bt.conn, result.ID(), nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Succeeded()).To(BeTrue())
		Expect(bt.daemon.ContainerStatus("first")).To(Equal("Stopped"))
	})

	It("create with a short timeout returns before completion", func() {
		bt.daemon.Hold(true)
		result, err := containers.Create(bt.conn, entities.ContainersPost{Name: "first", Source: entities.ContainerSource{Type: "none"}},
			new(containers.CreateOptions).WithTimeout(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Done()).To(BeFalse())
		Expect(result.Operation.Status).To(Equal(entities.OperationRunning))
	})

	It("list containers", func() {
		names, err := containers.Names(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(BeEmpty())

		bt.createContainer("first")
		bt.createContainer("second")

		names, err = containers.Names(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(Equal([]string{"first", "second"}))

		list, err := containers.List(bt.conn, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[1].Name).To(Equal("second"))

		req, _ := bt.daemon.LastRequest(http.MethodGet)
		Expect(req.Query).To(Equal("recursion=1"))
	})

	It("container names are escaped in paths", func() {
		_, err := containers.Inspect(bt.conn, "a b/c")
		Expect(bindings.IsNotFound(err)).To(BeTrue())
		req, _ := bt.daemon.LastRequest(http.MethodGet)
		Expect(req.Path).To(Equal("/1.0/containers/a%20b%2Fc"))
	})

	It("container lifecycle", func() {
		bt.createContainer("top")

		Expect(containers.Start(bt.conn, "top", nil)).To(Succeed())
		state, err := containers.State(bt.conn, "top")
		Expect(err).ToNot(HaveOccurred())
		Expect(state.Status).To(Equal("Running"))
		Expect(state.StatusCode).To(Equal(103))
		Expect(state.Network).To(HaveKey("eth0"))

		Expect(containers.Freeze(bt.conn, "top", nil)).To(Succeed())
		Expect(bt.daemon.ContainerStatus("top")).To(Equal("Frozen"))
		Expect(containers.Unfreeze(bt.conn, "top", nil)).To(Succeed())
		Expect(containers.Restart(bt.conn, "top", nil)).To(Succeed())
		Expect(bt.daemon.ContainerStatus("top")).To(Equal("Running"))

		Expect(containers.Stop(bt.conn, "top", new(containers.StateOptions).WithForce(true).WithActionTimeout(5*time.Second))).To(Succeed())
		req, _ := bt.daemon.LastRequest(http.MethodPut)
		Expect(string(req.Body)).To(ContainSubstring(`"action":"stop"`))
		Expect(string(req.Body)).To(ContainSubstring(`"timeout":5`))
		Expect(string(req.Body)).To(ContainSubstring(`"force":true`))
		Expect(bt.daemon.ContainerStatus("top")).To(Equal("Stopped"))
	})

	It("invalid state transition fails the operation", func() {
		bt.createContainer("top")
		err := containers.Freeze(bt.conn, "top", nil)
		Expect(err).To(HaveOccurred())
		var opErr *operations.OperationError
		Expect(err).To(BeAssignableToTypeOf(opErr))
		Expect(err.Error()).To(ContainSubstring("Stopped"))

		_, err = containers.UpdateState(bt.conn, "top", entities.ContainerStatePut{Action: "explode"}, nil)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusBadRequest))
	})

	It("update and rename container", func() {
		bt.createContainer("first")
		put := entities.ContainerPut{Config: map[string]string{"limits.cpu": "2"}, Profiles: []string{"default"}}
		Expect(containers.Update(bt.conn, "first", put, nil)).To(Succeed())

		data, err := containers.Inspect(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(data.Config).To(HaveKeyWithValue("limits.cpu", "2"))

		Expect(containers.Rename(bt.conn, "first", "second", nil)).To(Succeed())
		exists, err := containers.Exists(bt.conn, "second")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeTrue())
		exists, err = containers.Exists(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("remove container", func() {
		bt.createContainer("first")
		Expect(containers.Remove(bt.conn, "first", nil)).To(Succeed())
		Expect(bt.daemon.ContainerStatus("first")).To(BeEmpty())
	})

	It("remove running container is refused", func() {
		bt.runContainer("top")
		err := containers.Remove(bt.conn, "top", nil)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusBadRequest))
	})

	It("remove missing container", func() {
		err := containers.Remove(bt.conn, "foobar5000", nil)
		Expect(bindings.IsNotFound(err)).To(BeTrue())
		Expect(err).To(MatchError(bindings.ErrNotFound))

		err = containers.Remove(bt.conn, "foobar5000", new(containers.RemoveOptions).WithIgnore(true))
		Expect(err).ToNot(HaveOccurred())
	})

	It("remove without retries issues a single delete", func() {
		err := containers.Remove(bt.conn, "foobar5000", nil)
		Expect(bindings.IsNotFound(err)).To(BeTrue())
		deletes := 0
		for _, req := range bt.daemon.Requests() {
			if req.Method == http.MethodDelete {
				deletes++
			}
		}
		Expect(deletes).To(Equal(1))
	})

	It("remove retries a delete answered with not found", func() {
		bt.createContainer("first")
		bt.daemon.InjectError(http.MethodDelete, "/1.0/containers/first", http.StatusNotFound, 2)

		Expect(containers.Remove(bt.conn, "first", new(containers.RemoveOptions).WithRetries(3))).To(Succeed())
		deletes := 0
		for _, req := range bt.daemon.Requests() {
			if req.Method == http.MethodDelete {
				deletes++
			}
		}
		Expect(deletes).To(Equal(3))
	})

	It("remove all containers joins failures", func() {
		bt.createContainer("first")
		bt.runContainer("top")
		err := containers.RemoveAll(bt.conn, []string{"first", "top", "foobar5000"}, new(containers.RemoveOptions).WithRetries(0))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("removing container top"))
		Expect(err.Error()).To(ContainSubstring("removing container foobar5000"))
		Expect(bt.daemon.ContainerStatus("first")).To(BeEmpty())
	})

	It("snapshots", func() {
		bt.createContainer("first")
		result, err := containers.CreateSnapshot(bt.conn, "first", "snap0", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Succeeded()).To(BeTrue())

		names, err := containers.ListSnapshots(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(Equal([]string{"snap0"}))

		snapshot, err := containers.GetSnapshot(bt.conn, "first", "snap0")
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Name).To(Equal("snap0"))

		Expect(containers.RenameSnapshot(bt.conn, "first", "snap0", "before-upgrade", nil)).To(Succeed())
		_, err = containers.GetSnapshot(bt.conn, "first", "snap0")
		Expect(bindings.IsNotFound(err)).To(BeTrue())

		Expect(containers.RemoveSnapshot(bt.conn, "first", "before-upgrade", nil)).To(Succeed())
		names, err = containers.ListSnapshots(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(BeEmpty())
	})

	It("logs", func() {
		bt.createContainer("first")
		logs, err := containers.ListLogs(bt.conn, "first")
		Expect(err).ToNot(HaveOccurred())
		Expect(logs).To(Equal([]string{"lxc.conf", "lxc.log"}))

		content, err := containers.GetLog(bt.conn, "first", "lxc.log")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(Equal("lxc first started\n"))

		var buf bytes.Buffer
		n, err := containers.CopyLog(bt.conn, "first", "lxc.conf", &buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(BeNumerically("==", buf.Len()))

		Expect(containers.RemoveLog(bt.conn, "first", "lxc.log")).To(Succeed())
		_, err = containers.GetLog(bt.conn, "first", "lxc.log")
		Expect(bindings.IsNotFound(err)).To(BeTrue())
	})

	It("push and pull files", func() {
		bt.createContainer("first")
		options := new(containers.PushOptions).WithUID(1000).WithGID(100).WithMode(os.FileMode(0o600))
		Expect(containers.PushFile(bt.conn, "first", "/etc/motd", strings.NewReader("hello\n"), options)).To(Succeed())

		content, uid, gid, mode, ok := bt.daemon.ContainerFile("first", "/etc/motd")
		Expect(ok).To(BeTrue())
		Expect(string(content)).To(Equal("hello\n"))
		Expect([]string{uid, gid, mode}).To(Equal([]string{"1000", "100", "0600"}))

		file, err := containers.GetFile(bt.conn, "first", "/etc/motd")
		Expect(err).ToNot(HaveOccurred())
		Expect(file.Content).To(Equal([]byte("hello\n")))
		Expect(file.UID).To(Equal(1000))
		Expect(file.GID).To(Equal(100))
		Expect(file.Mode).To(Equal(os.FileMode(0o600)))

		_, err = containers.GetFile(bt.conn, "first", "/etc/missing")
		Expect(bindings.IsNotFound(err)).To(BeTrue())
	})

	It("exec", func() {
		bt.runContainer("top")
		result, err := containers.Exec(bt.conn, "top", []string{"echo", "hi"}, new(containers.ExecOptions).WithEnvironment(map[string]string{"TERM": "xterm"}))
		Expect(err).ToNot(HaveOccurred())
		code, ok := containers.ExitCode(result)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(0))

		req, _ := bt.daemon.LastRequest(http.MethodPost)
		Expect(string(req.Body)).To(ContainSubstring(`"command":["echo","hi"]`))

		_, err = containers.Exec(bt.conn, "top", nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("exec in stopped container is refused", func() {
		bt.createContainer("first")
		_, err := containers.Exec(bt.conn, "first", []string{"true"}, nil)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusBadRequest))
	})
})
