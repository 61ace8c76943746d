// This file is part of Zxbus.
//
// Zxbus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zxbus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zxbus.  If not, see <https://www.gnu.org/licenses/>.

package memory_test

import (
	"sync"
	"testing"

	"github.com/zxbus/zxbus/hardware/memory"
	"github.com/zxbus/zxbus/test"
)

// every emulation in the process sees the same Source for a name, even when
// the emulations are created concurrently
func TestSourcesShared(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]memory.Source, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = memory.RegisterSource("Shared EPROM")
		}()
	}
	wg.Wait()
	for _, s := range got {
		test.ExpectEquality(t, s, got[0])
	}
	test.ExpectEquality(t, got[0].String(), "Shared EPROM")
}

func TestPool(t *testing.T) {
	pool := memory.NewPool()

	a := pool.Allocate(0x4000, false)
	b := pool.Allocate(0x2000, true)
	test.ExpectEquality(t, len(pool.Bytes(a)), 0x4000)
	test.ExpectEquality(t, pool.Size(), 0x6000)
	test.ExpectSuccess(t, pool.Persistent(b))

	pool.Clear()
	test.ExpectEquality(t, pool.Size(), 0x2000)
	test.ExpectEquality(t, len(pool.Bytes(b)), 0x2000)
	test.ExpectPanic(t, func() { pool.Bytes(a) })

	// ids are not reused
	c := pool.Allocate(0x800, false)
	test.ExpectInequality(t, c, a)

	test.ExpectPanic(t, func() { pool.Allocate(0, false) })
}

func TestSources(t *testing.T) {
	test.ExpectEquality(t, memory.SourceNone, memory.Source(0))
	test.ExpectEquality(t, memory.SourceROM.String(), "ROM")

	s := memory.RegisterSource("Test EPROM")
	test.ExpectEquality(t, memory.RegisterSource("Test EPROM"), s)
	test.ExpectEquality(t, s.String(), "Test EPROM")
	test.ExpectEquality(t, memory.Source(-1).String(), "Unknown")
}

func TestNewPages(t *testing.T) {
	pool := memory.NewPool()
	arena := pool.Allocate(0x8000, false)

	pgs := memory.NewPages(pool, memory.SourceRAM, arena, 1, 8)
	test.DemandEquality(t, len(pgs), 8)
	test.ExpectEquality(t, pgs[0].Offset, 0x4000)
	test.ExpectEquality(t, pgs[7].Offset, 0x7800)
	test.ExpectEquality(t, pgs[7].ByteOffset, 0x3800)
	test.ExpectEquality(t, pgs[3].PageNum, 1)
	test.ExpectFailure(t, pgs[0].Writable)

	w := pgs.Writable(true)
	test.ExpectSuccess(t, w[0].Writable)
	test.ExpectFailure(t, pgs[0].Writable)

	test.ExpectPanic(t, func() { memory.NewPages(pool, memory.SourceRAM, arena, 2, 8) })
}

func newMap(t *testing.T) (*memory.Pool, *memory.Map, memory.ArenaID, memory.ArenaID) {
	t.Helper()

	pool := memory.NewPool()
	rom := pool.Allocate(0x4000, false)
	ram := pool.Allocate(0xc000, false)

	for i := range pool.Bytes(rom) {
		pool.Bytes(rom)[i] = 0xaa
	}

	m := memory.NewMap(pool)
	m.MapHome(0x0000, memory.NewPages(pool, memory.SourceROM, rom, 0, 8))
	for b := 0; b < 3; b++ {
		pgs := memory.NewPages(pool, memory.SourceRAM, ram, b, 8).Writable(true)
		if b == 0 {
			pgs = pgs.Contended(true)
		}
		m.MapHome(uint16(0x4000*(b+1)), pgs)
	}

	return pool, m, rom, ram
}

func TestHomeMapping(t *testing.T) {
	pool, m, _, ram := newMap(t)

	test.ExpectEquality(t, m.Read(0x0000), uint8(0xaa))

	// ROM is not writable
	m.Write(0x0100, 0x12)
	test.ExpectEquality(t, m.Read(0x0100), uint8(0xaa))

	m.Write(0x4000, 0x12)
	test.ExpectEquality(t, m.Read(0x4000), uint8(0x12))
	test.ExpectEquality(t, pool.Bytes(ram)[0], uint8(0x12))

	m.Write(0xffff, 0x34)
	test.ExpectEquality(t, pool.Bytes(ram)[0xbfff], uint8(0x34))

	test.ExpectSuccess(t, m.Contended(0x5000))
	test.ExpectFailure(t, m.Contended(0x8000))
	test.ExpectEquality(t, m.ReadPage(0x8800).Offset, 0x4800)
}

func TestUnmapped(t *testing.T) {
	pool := memory.NewPool()
	m := memory.NewMap(pool)
	test.ExpectEquality(t, m.Read(0x1234), uint8(0xff))
	m.Write(0x1234, 0x00)
	test.ExpectEquality(t, m.Read(0x1234), uint8(0xff))
	test.ExpectEquality(t, m.ReadPage(0x1234).String(), "unmapped")
}

func TestOverlay(t *testing.T) {
	pool, m, _, _ := newMap(t)

	eprom := pool.Allocate(0x2000, true)
	bank := pool.Allocate(0x2000, true)
	pool.Bytes(eprom)[0] = 0x55

	// mixed overlay. read-only lower half and writable upper half
	lower := memory.NewPages(pool, memory.RegisterSource("EPROM"), eprom, 0, 4)
	upper := memory.NewPages(pool, memory.RegisterSource("Expansion RAM"), bank, 0, 4).Writable(true)
	m.Overlay(0x0000, memory.Window8K, lower)
	m.Overlay(0x2000, memory.Window8K, upper)

	test.ExpectEquality(t, m.Read(0x0000), uint8(0x55))
	m.Write(0x0000, 0x01)
	test.ExpectEquality(t, m.Read(0x0000), uint8(0x55))

	m.Write(0x2000, 0x77)
	test.ExpectEquality(t, m.Read(0x2000), uint8(0x77))
	test.ExpectEquality(t, pool.Bytes(bank)[0], uint8(0x77))

	test.ExpectEquality(t, m.WritePage(0x3fff).Source.String(), "Expansion RAM")

	m.Restore(0x2000, memory.Window8K)
	test.ExpectEquality(t, m.Read(0x2000), uint8(0xaa))
	test.ExpectEquality(t, m.Read(0x0000), uint8(0x55))

	m.RestoreAll()
	test.ExpectEquality(t, m.Read(0x0000), uint8(0xaa))
}

func TestOverlayContract(t *testing.T) {
	pool, m, rom, _ := newMap(t)
	pgs := memory.NewPages(pool, memory.SourceROM, rom, 0, 4)

	// misaligned window
	test.ExpectPanic(t, func() { m.Overlay(0x1000, memory.Window8K, pgs) })

	// wrong number of pages for the window
	test.ExpectPanic(t, func() { m.Overlay(0x0000, memory.Window16K, pgs) })

	// unsupported quantum
	test.ExpectPanic(t, func() { m.Overlay(0x0000, memory.Quantum(0x3000), pgs) })

	// 4K window is fine
	m.Overlay(0x1000, memory.Window4K, pgs[:2])
}

func TestSummary(t *testing.T) {
	_, m, _, _ := newMap(t)

	expected := "0000 -> 3fff\tROM 0+0000 ro\n" +
		"4000 -> 7fff\tRAM 0+0000 rw contended\n" +
		"8000 -> bfff\tRAM 1+0000 rw\n" +
		"c000 -> ffff\tRAM 2+0000 rw\n"
	test.ExpectEquality(t, m.Summary(), expected)
}
