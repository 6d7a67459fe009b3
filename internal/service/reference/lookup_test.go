package reference

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"calibreport/internal/model"
)

func instrumentTable() *model.ReferenceTable {
	return &model.ReferenceTable{
		Name:    "仪器",
		Headers: []string{"仪器名称", "型号", "测量范围", "分辨力"},
		Rows: [][]string{
			{"角度仪", "JD-1", "0~360°", "1″"},
			{"光电轴角编码器", "GE-23", "0~360°", "0.1″"},
			{"光电轴角编码器", "GE-99", "重复行", "不应命中"},
			{"短行仪器", "SX"},
		},
	}
}

func TestLookupReturnsAlignedPairsWithoutKeyColumn(t *testing.T) {
	t.Parallel()

	got, err := Lookup(instrumentTable(), "光电轴角编码器")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	want := &model.AttributeRow{
		Key: "光电轴角编码器",
		Attributes: []model.Attribute{
			{Header: "型号", Value: "GE-23"},
			{Header: "测量范围", Value: "0~360°"},
			{Header: "分辨力", Value: "0.1″"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attribute row mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupShortRowPadsValues(t *testing.T) {
	t.Parallel()

	got, err := Lookup(instrumentTable(), "短行仪器")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(got.Attributes) != 3 {
		t.Fatalf("attributes=%d, want 3", len(got.Attributes))
	}
	if got.Attributes[2].Header != "分辨力" || got.Attributes[2].Value != "" {
		t.Fatalf("unexpected padded attribute: %+v", got.Attributes[2])
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"不存在的仪器", "", "仪器名称"} {
		_, err := Lookup(instrumentTable(), key)
		if !errors.Is(err, model.ErrNotFound) {
			t.Fatalf("key %q: expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestLookupNilTable(t *testing.T) {
	t.Parallel()

	_, err := Lookup(nil, "角度仪")
	if !errors.Is(err, model.ErrTableUnavailable) {
		t.Fatalf("expected ErrTableUnavailable, got %v", err)
	}
}
