package memory_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/memory"
)

var _ = Describe("State", func() {
	BeforeEach(func() { memory.Reset() })

	It("holds the last written value", func() {
		s := memory.NewStateValue("counter", 0)
		s.Set(1)
		s.Set(2)
		Expect(s.Get()).To(Equal(2))
	})

	It("broadcasts every write to registered watchers", func() {
		s := memory.NewStateValue("broadcast", 0)
		ch := make(chan int, 4)
		s.Watch(ch)

		s.Set(7)
		s.Set(8)

		Expect(<-ch).To(Equal(7))
		Expect(<-ch).To(Equal(8))
	})
})

var _ = Describe("Statics", func() {
	BeforeEach(func() { memory.Reset() })

	It("accepts exactly one Set and freezes thereafter", func() {
		st := memory.NewStatics[int]("role")
		Expect(st.IsSettable()).To(BeTrue())

		Expect(st.Set(1)).To(Succeed())
		Expect(st.IsSettable()).To(BeFalse())
		Expect(st.Get()).To(Equal(1))

		err := st.Set(2)
		Expect(errkind.IsKind(err, errkind.InvalidOperation)).To(BeTrue())
		Expect(st.Get()).To(Equal(1))
	})

	It("rejects an out-of-range Set and leaves it still settable", func() {
		st := memory.NewStaticsRange[int]("bounded", 0, 10)
		err := st.Set(20)
		Expect(errkind.IsKind(err, errkind.OutOfRange)).To(BeTrue())
		Expect(st.IsSettable()).To(BeTrue())

		Expect(st.Set(5)).To(Succeed())
		Expect(st.IsSettable()).To(BeFalse())
	})
})

var _ = Describe("Parameter", func() {
	BeforeEach(func() { memory.Reset() })

	It("rejects out-of-range writes and leaves the value unchanged", func() {
		p, err := memory.NewParameterRange[int32]("p", 10, 10, 20)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Set(15)).To(Succeed())
		Expect(p.Get()).To(Equal(int32(15)))

		err = p.Set(25)
		Expect(errkind.IsKind(err, errkind.OutOfRange)).To(BeTrue())
		Expect(p.Get()).To(Equal(int32(15)))

		err = p.Set(5)
		Expect(errkind.IsKind(err, errkind.OutOfRange)).To(BeTrue())
		Expect(p.Get()).To(Equal(int32(15)))
	})

	It("allows unrestricted writes when constructed without a range", func() {
		p := memory.NewParameter("free", 1.5)
		Expect(p.Set(-100.0)).To(Succeed())
		Expect(p.Get()).To(Equal(-100.0))
	})
})

var _ = Describe("Manager", func() {
	BeforeEach(func() { memory.Reset() })

	It("rejects re-registering a duplicate name within the same mode", func() {
		memory.NewStateValue("dup", 1)
		mode := memory.Get()
		mode.AddMode(mode.CurrentIndex())
		err := memory.NewStateValueChecked("dup", 2)
		Expect(errkind.IsKind(err, errkind.AlreadyDefined)).To(BeTrue())
	})

	It("serializes the current mode as state/statics/parameters sections", func() {
		memory.NewStateValue("s1", 42)
		memory.NewStatics[int]("st1").Set(7)
		p, _ := memory.NewParameterRange[int]("pr1", 1, 0, 10)
		p.Set(3)

		raw, err := memory.Get().SerializeAll()
		Expect(err).NotTo(HaveOccurred())

		var doc struct {
			MemoryMapped struct {
				State      map[string]json.RawMessage `json:"state"`
				Statics    map[string]json.RawMessage `json:"statics"`
				Parameters map[string]json.RawMessage `json:"parameters"`
			} `json:"memory_mapped"`
		}
		Expect(json.Unmarshal(raw, &doc)).To(Succeed())
		Expect(doc.MemoryMapped.State).To(HaveKey("s1"))
		Expect(doc.MemoryMapped.Statics).To(HaveKey("st1"))
		Expect(doc.MemoryMapped.Parameters).To(HaveKey("pr1"))
	})

	It("preserves mode 0's snapshot across a switch to mode 1", func() {
		memory.Get().AddMode(0)
		memory.Get().AddMode(1)
		Expect(memory.Get().SetMode(0)).To(Succeed())
		memory.NewStateValue("counter0", 100)

		Expect(memory.Get().SetMode(1)).To(Succeed())
		memory.NewStateValue("counter1", 200)

		raw0, err := memory.Get().Serialize(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw0)).To(ContainSubstring("counter0"))
		Expect(string(raw0)).NotTo(ContainSubstring("counter1"))
	})
})
