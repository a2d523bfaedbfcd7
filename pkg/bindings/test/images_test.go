package bindings_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"

	"github.com/containers/lxd-bindings/pkg/bindings"
	"github.com/containers/lxd-bindings/pkg/bindings/images"
	"github.com/containers/lxd-bindings/pkg/bindings/operations"
	"github.com/containers/lxd-bindings/pkg/domain/entities"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LXD images", func() {
	var (
		bt *bindingTest
	)

	BeforeEach(func() {
		bt = newBindingTest()
	})

	AfterEach(func() {
		bt.cleanup()
	})

	It("inspect image", func() {
		// Inspect invalid image be 404
		_, err := images.Get(bt.conn, "foobar5000")
		Expect(err).To(HaveOccurred())
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusNotFound))

		// Inspect with full fingerprint
		data, err := images.Get(bt.conn, bt.busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(data.Fingerprint).To(Equal(bt.busybox))
		Expect(data.Aliases).To(ContainElement(entities.ImageAlias{Name: busybox}))

		// Inspect with partial fingerprint
		_, err = images.Get(bt.conn, bt.busybox[0:12])
		Expect(err).ToNot(HaveOccurred())

		// Inspect by alias
		data, err = images.GetByAlias(bt.conn, busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(data.Fingerprint).To(Equal(bt.busybox))
	})

	It("image exists", func() {
		exists, err := images.Exists(bt.conn, bt.busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeTrue())

		exists, err = images.Exists(bt.conn, "foobar5000")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("list images", func() {
		fingerprints, err := images.List(bt.conn, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(fingerprints).To(Equal([]string{bt.busybox}))

		fingerprints, err = images.List(bt.conn, new(images.ListOptions).WithFilter("public eq true"))
		Expect(err).ToNot(HaveOccurred())
		Expect(fingerprints).To(Equal([]string{bt.busybox}))
		req, _ := bt.daemon.LastRequest(http.MethodGet)
		Expect(req.Query).To(Equal("filter=public+eq+true"))
	})

	It("upload image", func() {
		content := []byte("alpine unified image\n")
		sum := sha256.Sum256(content)

		options := new(images.UploadOptions).
			WithPublic(true).
			WithFilename("alpine.tar.gz").
			WithProperties(map[string]string{"os": "alpine", "release": "3.19"})
		fingerprint, err := images.Upload(bt.conn, bytes.NewReader(content), options)
		Expect(err).ToNot(HaveOccurred())
		Expect(fingerprint).To(Equal(hex.EncodeToString(sum[:])))

		req, _ := bt.daemon.LastRequest(http.MethodPost)
		Expect(req.Header.Get("X-LXD-Public")).To(Equal("1"))
		Expect(req.Header.Get("X-LXD-filename")).To(Equal("alpine.tar.gz"))
		Expect(req.Header.Get("X-LXD-properties")).To(Equal("os=alpine&release=3.19"))
		Expect(req.Header.Get("Content-Type")).To(Equal("application/octet-stream"))
		Expect(req.Body).To(Equal(content))

		data, err := images.Get(bt.conn, fingerprint)
		Expect(err).ToNot(HaveOccurred())
		Expect(data.Public).To(BeTrue())
		Expect(data.Properties).To(HaveKeyWithValue("release", "3.19"))
		Expect(data.Size).To(BeNumerically("==", len(content)))
	})

	It("upload duplicate image fails the operation", func() {
		_, err := images.Upload(bt.conn, bytes.NewReader(busyboxData), nil)
		Expect(err).To(HaveOccurred())
		var opErr *operations.OperationError
		Expect(err).To(BeAssignableToTypeOf(opErr))
	})

	It("upload built tarball", func() {
		rootfs := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(rootfs, "hello"), []byte("world"), 0o644)).To(Succeed())
		tarball, err := images.BuildTarball(entities.ImageMetadata{Architecture: "x86_64"}, rootfs, nil)
		Expect(err).ToNot(HaveOccurred())
		defer tarball.Close()

		fingerprint, err := images.Upload(bt.conn, tarball, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(bt.daemon.HasImage(fingerprint)).To(BeTrue())
	})

	It("export image", func() {
		var buf bytes.Buffer
		n, err := images.Export(bt.conn, bt.busybox, &buf, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(BeNumerically("==", len(busyboxData)))
		Expect(buf.Bytes()).To(Equal(busyboxData))

		// A fingerprint prefix is not verified
		buf.Reset()
		_, err = images.Export(bt.conn, bt.busybox[0:12], &buf, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.Bytes()).To(Equal(busyboxData))
	})

	It("export private image with secret", func() {
		Expect(images.Update(bt.conn, bt.busybox, entities.ImagePut{Public: false})).To(Succeed())

		var buf bytes.Buffer
		_, err := images.Export(bt.conn, bt.busybox, &buf, new(images.ExportOptions).WithSecret("bogus"))
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusForbidden))

		secret, err := images.Secret(bt.conn, bt.busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(secret).ToNot(BeEmpty())
		_, err = images.Export(bt.conn, bt.busybox, &buf, new(images.ExportOptions).WithSecret(secret))
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.Bytes()).To(Equal(busyboxData))
	})

	It("image secret does not wait for its token operation", func() {
		before := len(bt.daemon.Requests())
		secret, err := images.Secret(bt.conn, bt.busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(secret).ToNot(BeEmpty())

		reqs := bt.daemon.Requests()[before:]
		Expect(reqs).To(HaveLen(1))
		Expect(reqs[0].Method).To(Equal(http.MethodPost))
		Expect(reqs[0].Path).To(HaveSuffix("/secret"))

		ops, err := operations.List(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(ops["running"]).To(HaveLen(1))
		op, ok := bt.daemon.Operation(ops["running"][0])
		Expect(ok).To(BeTrue())
		Expect(op.Class).To(Equal("token"))
		Expect(op.Status).To(Equal(entities.OperationRunning))
		Expect(op.Metadata).To(HaveKeyWithValue("secret", secret))
	})

	It("import image from an existing alias", func() {
		req := entities.ImagesPost{
			Source:  &entities.ImageSource{Type: "image", Alias: busybox},
			Aliases: []entities.ImageAlias{{Name: "bb", Description: "copy"}},
		}
		fingerprint, err := images.Import(bt.conn, req, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(fingerprint).To(Equal(bt.busybox))

		alias, err := images.GetAlias(bt.conn, "bb")
		Expect(err).ToNot(HaveOccurred())
		Expect(alias.Target).To(Equal(bt.busybox))

		_, err = images.Import(bt.conn, entities.ImagesPost{Source: &entities.ImageSource{Type: "url", URL: "https://example.com/x"}}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("image info", func() {
		info, err := images.Info(bt.conn, bt.busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(info.Fingerprint).To(Equal(bt.busybox))
		Expect(info.Architecture).To(Equal("x86_64"))
		Expect(info.SizeMB).To(BeNumerically("==", 0))
		Expect(info.ExpiresDate).To(Equal("Unknown"))
		Expect(info.UploadDate).To(MatchRegexp(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`))
	})

	It("remove image", func() {
		Expect(images.Remove(bt.conn, bt.busybox, nil)).To(Succeed())
		Expect(bt.daemon.HasImage(bt.busybox)).To(BeFalse())

		exists, err := images.AliasExists(bt.conn, busybox)
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())

		err = images.Remove(bt.conn, bt.busybox, nil)
		Expect(bindings.IsNotFound(err)).To(BeTrue())
		Expect(images.Remove(bt.conn, bt.busybox, new(images.RemoveOptions).WithIgnore(true))).To(Succeed())
	})

	It("remove all images joins failures", func() {
		err := images.RemoveAll(bt.conn, []string{bt.busybox, "foobar5000"}, nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("removing image foobar5000"))
		Expect(bt.daemon.HasImage(bt.busybox)).To(BeFalse())
	})

	It("aliases", func() {
		names, err := images.ListAliases(bt.conn)
		Expect(err).ToNot(HaveOccurred())
		Expect(names).To(Equal([]string{busybox}))

		Expect(images.CreateAlias(bt.conn, "bb", bt.busybox, "short")).To(Succeed())
		err = images.CreateAlias(bt.conn, "bb", bt.busybox, "again")
		code, _ := bindings.CheckResponseCode(err)
		Expect(code).To(BeNumerically("==", http.StatusConflict))

		err = images.CreateAlias(bt.conn, "dangling", "foobar5000", "")
		Expect(bindings.IsNotFound(err)).To(BeTrue())

		Expect(images.UpdateAlias(bt.conn, "bb", entities.ImageAliasesEntryPut{Target: bt.busybox, Description: "updated"})).To(Succeed())
		alias, err := images.GetAlias(bt.conn, "bb")
		Expect(err).ToNot(HaveOccurred())
		Expect(alias.Description).To(Equal("updated"))

		Expect(images.RenameAlias(bt.conn, "bb", "tiny")).To(Succeed())
		exists, err := images.AliasExists(bt.conn, "bb")
		Expect(err).ToNot(HaveOccurred())
		Expect(exists).To(BeFalse())

		Expect(images.RemoveAlias(bt.conn, "tiny")).To(Succeed())
		Expect(bt.daemon.HasImage(bt.busybox)).To(BeTrue())
	})
})
