package utd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/record"
	"github.com/Brazilian-Institute-of-Robotics/ut-8channels/internal/testutil"
)

const legacyData = 2044

func threeRecordStream() []byte {
	return testutil.BuildStream(testutil.LegacyFields, []testutil.Record{
		{Channel: 0, Payload: testutil.Payload(legacyData, 0x80, 0, 255, 128)},
		{Channel: 7, Payload: testutil.Payload(legacyData, 64)},
		{Channel: 9, Payload: testutil.Payload(legacyData, 1)},
	})
}

func TestDecodeThreeRecords(t *testing.T) {
	result, err := Decode(context.Background(), bytes.NewReader(threeRecordStream()), Options{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Records)
	require.Equal(t, record.StopInvalidChannel, result.Stop.Reason)
	require.Equal(t, 9, result.Stop.Channel)

	set := result.Channels
	require.Equal(t, 8, set.Channels())
	require.Equal(t, 1, set.Len(0))
	require.Equal(t, 1, set.Len(7))
	for ch := 1; ch <= 6; ch++ {
		require.Zero(t, set.Len(ch), "channel %d", ch)
	}
	require.Equal(t, []float64{-1, 1, 0}, []float64(set.Scans(0)[0][:3]))
}

func TestDecodeTruncatedTail(t *testing.T) {
	stream := testutil.BuildStream(testutil.LegacyFields, []testutil.Record{
		{Channel: 5, Payload: testutil.Payload(legacyData, 0x80)},
	}, 0xAB, 0xCD)
	result, err := Decode(context.Background(), bytes.NewReader(stream), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Channels.Total())
	require.Equal(t, 1, result.Channels.Len(5))
	require.Equal(t, record.StopTruncated, result.Stop.Reason)
}

func TestDecodeStrict(t *testing.T) {
	result, err := Decode(context.Background(), bytes.NewReader(threeRecordStream()), Options{Strict: true})
	require.ErrorIs(t, err, record.ErrInvalidChannel)
	require.NotNil(t, result.Channels)
	require.Equal(t, 2, result.Records)
}

func TestDecodeIdempotent(t *testing.T) {
	stream := threeRecordStream()
	first, err := Decode(context.Background(), bytes.NewReader(stream), Options{})
	require.NoError(t, err)
	second, err := Decode(context.Background(), bytes.NewReader(stream), Options{})
	require.NoError(t, err)
	require.True(t, first.Channels.Equal(second.Channels))
}

func TestDecodeUnknownVariant(t *testing.T) {
	_, err := Decode(context.Background(), bytes.NewReader(nil), Options{Variant: "v9"})
	require.ErrorIs(t, err, record.ErrInvalidLayout)
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, bytes.NewReader(threeRecordStream()), Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecodeFileInvalidPath(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "scan.bin", threeRecordStream())
	_, err := DecodeFile(context.Background(), path, Options{})
	require.True(t, errors.Is(err, ErrInvalidInputPath))

	_, err = DecodeFile(context.Background(), filepath.Join(dir, "missing.utd"), Options{})
	require.True(t, errors.Is(err, ErrInvalidInputPath))
}

func TestConvertCSV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "run.utd", threeRecordStream())

	result, err := Convert(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "run.csv"), result.Output)

	f, err := os.Open(result.Output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, legacyData+1)
	require.Equal(t, []string{"", "sensor 1 scan 1", "sensor 8 scan 1"}, rows[0])
	require.Equal(t, []string{"0", "-1", "-0.5039370078740157"}, rows[1])
	require.Equal(t, []string{"1", "1", "-0.5039370078740157"}, rows[2])
	require.Equal(t, []string{"2", "0", "-0.5039370078740157"}, rows[3])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "temporary export file left behind")
}

func TestConvertXLSXScans(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "run.utd", threeRecordStream())
	out := filepath.Join(dir, "out", "scans.xlsx")

	result, err := Convert(context.Background(), path, Options{Format: "xlsx", Shape: "scans", Precision: 2, Output: out})
	require.NoError(t, err)
	require.Equal(t, out, result.Output)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("A-scans")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "sensor 8", rows[0][8])
	require.Contains(t, rows[1][1], "[-1.00 1.00 0.00 0.00")
}

func TestConvertUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "run.utd", threeRecordStream())
	_, err := Convert(context.Background(), path, Options{Format: "parquet"})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "run.parquet"))
	require.True(t, os.IsNotExist(statErr))
}

func TestResultString(t *testing.T) {
	result, err := Decode(context.Background(), bytes.NewReader(threeRecordStream()), Options{})
	require.NoError(t, err)
	out := result.String()
	require.Contains(t, out, `"stop": "invalid_channel"`)
	require.Contains(t, out, `"stop_channel": 9`)
	require.Contains(t, out, `"partial": true`)
}
