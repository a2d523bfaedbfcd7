package bindings_test

import (
	"net/http"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/containers"
	"github.com/containers/lxd-bindings/pkg/bindings/profiles"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LXD profiles", func() {
	var (
		bt *bindingTest
	)

	BeforeEach(func() {
		bt = newBindingTest()
	})

	AfterEach(func() {
		bt.cleanup()
	})

	It("default profile", func() {
		names, err := profiles.List(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(Equal([]string{"default"}))

		profile, err := profiles.Get(bt.conn, "default")
		Expect(err).ToNot(HaveOccurred())
		Expect(profile.Devices).To(HaveKey("eth0"))
		Expect(profile.UsedBy).To(BeEmpty())

		err = profiles.Remove(bt.conn, "default")
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusForbidden))
	})

	It("profile lifecycle", func() {
		put := entities.ProfilePut{Description: "limits", Config: map[string]string{"limits.memory": "256MB"}}
		Expect(profiles.Create(bt.conn, "small", put)).To(Succeed())

		err := profiles.Create(bt.conn, "small", put)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusConflict))

		put.Description = "tight limits"
		Expect(profiles.Update(bt.conn, "small", put)).To(Succeed())
		profile, err := profiles.Get(bt.conn, "small")
		Expect(err).ToNot(HaveOccurred())
		Expect(profile.Description).To(Equal("tight limits"))

		Expect(profiles.Rename(bt.conn, "small", "tiny")).To(Succeed())
		exists, err := profiles.Exists(bt.conn, "small")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())

		Expect(profiles.Remove(bt.conn, "tiny")).To(Succeed())
		_, err = profiles.Get(bt.conn, "tiny")
		Expect(bindings.IsNotFound(err)).To(BeTrue())
	})

	It("profile in use cannot be removed", func() {
		Expect(profiles.Create(bt.conn, "small", entities.ProfilePut{})).To(Succeed())
		spec := entities.ContainersPost{
			ContainerPut: entities.ContainerPut{Profiles: []string{"default", "small"}},
			Name:         "first",
			Source:       entities.ContainerSource{Type: "none"},
		}
		_, err := containers.Create(bt.conn, spec, nil)
		Expect(err).ToNot(HaveOccurred())

		profile, err := profiles.Get(bt.conn, "small")
		Expect(err).ToNot(HaveOccurred())
		Expect(profile.UsedBy).To(Equal([]string{"/1.0/containers/first"}))

		err = profiles.Remove(bt.conn, "small")
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusBadRequest))
	})

	It("create container with missing profile", func() {
		spec := entities.ContainersPost{
			ContainerPut: entities.ContainerPut{Profiles: []string{"foobar5000"}},
			Name:         "first",
			Source:       entities.ContainerSource{Type: "none"},
		}
		_, err := containers.Create(bt.conn, spec, nil)
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusBadRequest))
	})
})
