package structure

import (
	"testing"

	huandu "github.com/huandu/skiplist"
)

// Comparative benchmarks against a general-purpose heap-allocated skip
// list, covering the hot paths of an ordered price index:
// insert (new price levels), search (price lookup), delete (level
// drained), and min-walk (iterating from best price while matching).

const benchLevels = 1000

func BenchmarkIndexInsert_Arena(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sl := NewSkipList[int64](benchLevels+10, 42)
		for k := int64(0); k < benchLevels; k++ {
			_, _, _ = sl.InsertOrGet(k)
		}
	}
}

func BenchmarkIndexInsert_Huandu(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sl := huandu.New(huandu.Int64)
		for k := int64(0); k < benchLevels; k++ {
			sl.Set(k, k)
		}
	}
}

func BenchmarkIndexSearch_Arena(b *testing.B) {
	sl := NewSkipList[int64](benchLevels+10, 42)
	for k := int64(0); k < benchLevels; k++ {
		_, _, _ = sl.InsertOrGet(k)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sl.Get(int64(i % benchLevels))
	}
}

func BenchmarkIndexSearch_Huandu(b *testing.B) {
	sl := huandu.New(huandu.Int64)
	for k := int64(0); k < benchLevels; k++ {
		sl.Set(k, k)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		sl.Get(int64(i % benchLevels))
	}
}

func BenchmarkIndexInsertDelete_Arena(b *testing.B) {
	sl := NewSkipList[int64](benchLevels+10, 42)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := int64(i % benchLevels)
		_, _, _ = sl.InsertOrGet(k)
		sl.Delete(k)
	}
}

func BenchmarkIndexInsertDelete_Huandu(b *testing.B) {
	sl := huandu.New(huandu.Int64)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		k := int64(i % benchLevels)
		sl.Set(k, k)
		sl.Remove(k)
	}
}

func BenchmarkIndexMinWalk_Arena(b *testing.B) {
	sl := NewSkipList[int64](benchLevels+10, 42)
	for k := int64(0); k < benchLevels; k++ {
		_, _, _ = sl.InsertOrGet(k)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h, ok := sl.Head()
		for ok {
			h, ok = sl.Next(h)
		}
	}
}

func BenchmarkIndexMinWalk_Huandu(b *testing.B) {
	sl := huandu.New(huandu.Int64)
	for k := int64(0); k < benchLevels; k++ {
		sl.Set(k, k)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for el := sl.Front(); el != nil; el = el.Next() {
		}
	}
}
