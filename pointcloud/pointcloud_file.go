package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// PCDType is the data encoding of a pcd file.
type PCDType int

const (
	// PCDAscii writes one "x y z" text line per point.
	PCDAscii PCDType = 0
	// PCDBinary writes three little endian float32 per point.
	PCDBinary PCDType = 1
)

var pcdDataNames = map[PCDType]string{
	PCDAscii:  "ascii",
	PCDBinary: "binary",
}

// WriteToFile writes the cloud to fn in the format named by its extension, .pcd or .las.
func WriteToFile(cloud *PointCloud, fn string) (err error) {
	switch filepath.Ext(fn) {
	case ".las":
		return WriteToLASFile(cloud, fn)
	case ".pcd":
	default:
		return errors.Errorf("do not know how to write point cloud file %q", fn)
	}

	f, err := os.Create(filepath.Clean(fn))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if err := ToPCD(cloud, w, PCDBinary); err != nil {
		return err
	}
	return w.Flush()
}

// WriteToLASFile writes the cloud as LAS point format 0. LAS stores scaled integer
// coordinates, so points are quantized by the header's scale factors.
func WriteToLASFile(cloud *PointCloud, fn string) (err error) {
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	if err := lf.AddHeader(lidario.LasHeader{PointFormatID: 0}); err != nil {
		return err
	}
	// return number 1 of 1
	const returnBits = 1 | 1<<3
	for _, p := range cloud.points {
		if err := lf.AddLasPoint(&lidario.PointRecord0{
			X:             p.X,
			Y:             p.Y,
			Z:             p.Z,
			BitField:      lidario.PointBitField{Value: returnBits},
			PointSourceID: 1,
		}); err != nil {
			return errors.Wrapf(err, "adding point to %s", fn)
		}
	}
	return nil
}

// ToPCD writes the cloud as an unorganized PCD v0.7 file with float x y z fields.
func ToPCD(cloud *PointCloud, out io.Writer, outputType PCDType) error {
	dataName, ok := pcdDataNames[outputType]
	if !ok {
		return errors.Errorf("unsupported pcd output type %d", outputType)
	}
	n := cloud.Size()
	if _, err := fmt.Fprintf(out,
		"VERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\n"+
			"WIDTH %d\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS %d\nDATA %s\n",
		n, n, dataName); err != nil {
		return err
	}

	var err error
	buf := make([]byte, 12)
	cloud.Iterate(0, 0, func(p r3.Vector) bool {
		if outputType == PCDAscii {
			_, err = fmt.Fprintf(out, "%f %f %f\n", p.X, p.Y, p.Z)
			return err == nil
		}
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(p.Z)))
		_, err = out.Write(buf)
		return err == nil
	})
	return err
}
