package tracing

import (
	"database/sql"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dmcachesim/datarecording"
	"github.com/sarchlab/dmcachesim/directmapped"
)

var _ = Describe("AccessRecorder", func() {
	var (
		db       *sql.DB
		recorder datarecording.DataRecorder
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3",
			filepath.Join(GinkgoT().TempDir(), "trace.sqlite3"))
		Expect(err).NotTo(HaveOccurred())

		recorder = datarecording.NewWithDB(db)
	})

	AfterEach(func() {
		Expect(recorder.Close()).To(Succeed())
	})

	It("should store every access with its run ID", func() {
		accessRecorder := NewAccessRecorder(recorder)
		cache, err := directmapped.MakeBuilder().
			WithTotalByteSize(64).
			WithBlockByteSize(16).
			WithHook(accessRecorder).
			Build("Cache")
		Expect(err).NotTo(HaveOccurred())

		accessRecorder.SetRunID("run1")
		cache.AccessByteAddress(0)
		cache.AccessByteAddress(64)
		accessRecorder.SetRunID("run2")
		cache.AccessByteAddress(68)
		recorder.Flush()

		rows, err := db.Query(
			"SELECT RunID, Seq, Address, BlockIndex, Kind FROM dm_accesses " +
				"ORDER BY RunID, Seq")
		Expect(err).NotTo(HaveOccurred())
		defer rows.Close()

		type row struct {
			RunID      string
			Seq        uint64
			Address    uint64
			BlockIndex uint64
			Kind       string
		}

		var got []row
		for rows.Next() {
			var r row
			Expect(rows.Scan(
				&r.RunID, &r.Seq, &r.Address, &r.BlockIndex, &r.Kind,
			)).To(Succeed())
			got = append(got, r)
		}

		Expect(got).To(Equal([]row{
			{"run1", 0, 0, 0, "compulsory-miss"},
			{"run1", 1, 64, 0, "conflict-miss"},
			{"run2", 0, 68, 0, "hit"},
		}))
	})
})
