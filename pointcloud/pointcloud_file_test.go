package pointcloud

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeTestCloud(t *testing.T) *PointCloud {
	t.Helper()
	pc, err := NewFromPoints(RoleFull, []r3.Vector{
		{X: 0.1, Y: 0, Z: 0},
		{X: 0, Y: 0.1, Z: 0.05},
		{X: -0.1, Y: 0, Z: 0.1},
	})
	test.That(t, err, test.ShouldBeNil)
	return pc
}

func TestToPCDAscii(t *testing.T) {
	pc := makeTestCloud(t)
	var buf bytes.Buffer
	test.That(t, ToPCD(pc, &buf, PCDAscii), test.ShouldBeNil)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	test.That(t, lines, test.ShouldResemble, []string{
		"VERSION .7",
		"FIELDS x y z",
		"SIZE 4 4 4",
		"TYPE F F F",
		"COUNT 1 1 1",
		"WIDTH 3",
		"HEIGHT 1",
		"VIEWPOINT 0 0 0 1 0 0 0",
		"POINTS 3",
		"DATA ascii",
		"0.100000 0.000000 0.000000",
		"0.000000 0.100000 0.050000",
		"-0.100000 0.000000 0.100000",
	})
}

func TestToPCDBinary(t *testing.T) {
	pc := makeTestCloud(t)
	var buf bytes.Buffer
	test.That(t, ToPCD(pc, &buf, PCDBinary), test.ShouldBeNil)

	header, data, found := strings.Cut(buf.String(), "DATA binary\n")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, header, test.ShouldContainSubstring, "POINTS 3\n")
	test.That(t, len(data), test.ShouldEqual, 3*12)

	test.That(t, ToPCD(pc, &buf, PCDType(7)), test.ShouldNotBeNil)
}

func TestWriteToFile(t *testing.T) {
	pc := makeTestCloud(t)
	dir := t.TempDir()

	pcdPath := filepath.Join(dir, "full.pcd")
	test.That(t, WriteToFile(pc, pcdPath), test.ShouldBeNil)
	raw, err := os.ReadFile(pcdPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(raw), test.ShouldStartWith, "VERSION .7\n")

	lasPath := filepath.Join(dir, "full.las")
	test.That(t, WriteToFile(pc, lasPath), test.ShouldBeNil)
	lf, err := lidario.NewLasFile(lasPath, "r")
	test.That(t, err, test.ShouldBeNil)
	defer lf.Close()
	test.That(t, lf.Header.NumberPoints, test.ShouldEqual, 3)

	err = WriteToFile(pc, filepath.Join(dir, "full.ply"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how to write")
}
