package provider

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
	"github.com/dd0wney/cluso-roadsim/pkg/validation"
)

// Node coordinates assigned to CSV nodes, which carry no positions
const (
	csvMinCoord = 50
	csvMaxCoord = 350
)

// SnappyExt marks an edge list compressed with the snappy framing format
const SnappyExt = ".sz"

// CSV reads a PEMS-style edge list with a "from,to,cost" header.
// SampleSize rows are drawn without replacement (all rows when zero or
// larger than the file) and every node they reference gets a random position.
// Files ending in SnappyExt are decompressed on the fly.
type CSV struct {
	Path       string `validate:"required"`
	SampleSize int    `validate:"gte=0"`
	Seed       int64
	Logger     logging.Logger
}

// LoadGraph implements graph.Provider
func (c CSV) LoadGraph(ctx context.Context) (map[graph.NodeID]geometry.Position, []graph.Edge, error) {
	if err := validation.ValidateStruct(c); err != nil {
		return nil, nil, graph.NewError("LoadGraph").Entity("csv").Cause(err).Err()
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	timer := logging.StartTimer(logger, "edge list read", logging.Path(c.Path))
	records, err := c.readRecords(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, nil, err
	}
	timer.End(logging.Count(len(records)))

	rnd := rand.New(rand.NewSource(c.Seed))
	sampled := sample(records, c.SampleSize, rnd)

	edges := make([]graph.Edge, len(sampled))
	for i, rec := range sampled {
		edges[i] = graph.Edge{From: graph.NodeID(rec.From), To: graph.NodeID(rec.To), Cost: rec.Cost}
	}
	return placeNodes(edges, rnd), edges, nil
}

func (c CSV) readRecords(ctx context.Context) ([]validation.EdgeRecord, error) {
	ra, err := mmap.Open(c.Path)
	if err != nil {
		return nil, graph.NewError("LoadGraph").Entity("csv").Context(c.Path).Cause(err).Err()
	}
	defer ra.Close()

	var r io.Reader = io.NewSectionReader(ra, 0, int64(ra.Len()))
	if strings.HasSuffix(c.Path, SnappyExt) {
		r = snappy.NewReader(r)
	}
	return parseEdgeList(ctx, r)
}

// parseEdgeList reads and validates every row after the header
func parseEdgeList(ctx context.Context, r io.Reader) ([]validation.EdgeRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("missing header")
		}
		return nil, graph.NewError("LoadGraph").Record(1).Cause(fmt.Errorf("%w: %w", graph.ErrMalformed, err)).Err()
	}
	cols, err := columns(header)
	if err != nil {
		return nil, graph.NewError("LoadGraph").Record(1).Cause(err).Err()
	}

	var records []validation.EdgeRecord
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, graph.NewError("LoadGraph").Record(line).Cause(fmt.Errorf("%w: %w", graph.ErrMalformed, err)).Err()
		}

		rec, err := parseRow(row, cols, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

type columnIndex struct {
	from, to, cost int
}

func columns(header []string) (columnIndex, error) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var cols columnIndex
	for name, dst := range map[string]*int{"from": &cols.from, "to": &cols.to, "cost": &cols.cost} {
		i, ok := idx[name]
		if !ok {
			return cols, fmt.Errorf("%w: header lacks %q column", graph.ErrMalformed, name)
		}
		*dst = i
	}
	return cols, nil
}

func parseRow(row []string, cols columnIndex, line int) (validation.EdgeRecord, error) {
	fail := func(err error) (validation.EdgeRecord, error) {
		return validation.EdgeRecord{}, graph.NewError("LoadGraph").Record(line).Cause(fmt.Errorf("%w: %w", graph.ErrMalformed, err)).Err()
	}

	from, err := strconv.ParseInt(strings.TrimSpace(row[cols.from]), 10, 64)
	if err != nil {
		return fail(err)
	}
	to, err := strconv.ParseInt(strings.TrimSpace(row[cols.to]), 10, 64)
	if err != nil {
		return fail(err)
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(row[cols.cost]), 64)
	if err != nil {
		return fail(err)
	}

	rec := validation.EdgeRecord{Line: line, From: from, To: to, Cost: cost}
	if err := validation.ValidateEdgeRecord(&rec); err != nil {
		return fail(err)
	}
	return rec, nil
}

// sample draws n records without replacement, keeping file order
func sample(records []validation.EdgeRecord, n int, rnd *rand.Rand) []validation.EdgeRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	picked := rnd.Perm(len(records))[:n]
	sort.Ints(picked)

	out := make([]validation.EdgeRecord, n)
	for i, idx := range picked {
		out[i] = records[idx]
	}
	return out
}

// placeNodes gives every endpoint a random position, visiting nodes in
// ascending ID order so a seed always yields the same layout
func placeNodes(edges []graph.Edge, rnd *rand.Rand) map[graph.NodeID]geometry.Position {
	seen := map[graph.NodeID]struct{}{}
	var ids []graph.NodeID
	for _, e := range edges {
		for _, id := range [2]graph.NodeID{e.From, e.To} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	nodes := make(map[graph.NodeID]geometry.Position, len(ids))
	for _, id := range ids {
		nodes[id] = geometry.Position{
			X: float64(csvMinCoord + rnd.Intn(csvMaxCoord-csvMinCoord+1)),
			Y: float64(csvMinCoord + rnd.Intn(csvMaxCoord-csvMinCoord+1)),
		}
	}
	return nodes
}
