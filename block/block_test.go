package block_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kappasdr/streamcore/block"
	"github.com/kappasdr/streamcore/cmn/errkind"
	"github.com/kappasdr/streamcore/connector"
	"github.com/kappasdr/streamcore/memory"
)

// fftBlock is a minimal concrete block used to exercise the lifecycle
// contract: one unset Statics until Init, a counting Process.
type fftBlock struct {
	*block.Block
	size   *memory.Statics[int]
	ticks  int32
}

func newFFTBlock(name string) *fftBlock {
	b := &fftBlock{Block: block.New(name)}
	b.size, _ = block.NewStatics[int](b.Block, "fft_size")
	return b
}

func (f *fftBlock) Init() error { return block.DefaultInit(f.Block) }
func (f *fftBlock) Run() error  { return block.DefaultRun(f.Block, f) }
func (f *fftBlock) Process() error {
	atomic.AddInt32(&f.ticks, 1)
	return block.DefaultProcess()
}
func (f *fftBlock) Stop() error { return block.DefaultStop(f.Block) }
func (f *fftBlock) ExecuteCommand(name, args string) (string, error) {
	return block.DefaultExecuteCommand(f.Block, name)
}

var _ = Describe("Block maps", func() {
	It("rejects duplicate registration of the same local name", func() {
		b := block.New("adc")
		_, err := block.NewInput[float64](b, "samples")
		Expect(err).NotTo(HaveOccurred())

		_, err = block.NewInput[float64](b, "samples")
		Expect(errkind.IsKind(err, errkind.AlreadyDefined)).To(BeTrue())
	})

	It("qualifies local names as <block>.<local>", func() {
		b := block.New("adc")
		Expect(b.Qualify("samples")).To(Equal("adc.samples"))
	})

	It("returns WrongType when the stored element type differs", func() {
		b := block.New("adc")
		_, err := block.NewInput[float64](b, "samples")
		Expect(err).NotTo(HaveOccurred())

		_, err = block.GetInput[int](b, "samples")
		Expect(errkind.IsKind(err, errkind.WrongType)).To(BeTrue())
	})

	It("returns InvalidInput when the name is absent", func() {
		b := block.New("adc")
		_, err := block.GetInput[float64](b, "missing")
		Expect(errkind.IsKind(err, errkind.InvalidInput)).To(BeTrue())
	})

	It("wires an output to a downstream input and delivers data", func() {
		b := block.New("src")
		out, err := block.NewOutput[int](b, "out")
		Expect(err).NotTo(HaveOccurred())

		in := connector.NewInput[int]("sink.in")
		Expect(block.Connect[int](b, "out", in.Sender())).To(Succeed())

		Expect(out.Send(5)).To(Succeed())
		v, err := in.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(5))
	})
})

var _ = Describe("Statics write-once (scenario 1)", func() {
	It("matches the literal end-to-end scenario", func() {
		memory.Reset()
		s := memory.NewStaticsRange[uint32]("fft_size", 0, 1<<20)
		Expect(s.Set(1024)).To(Succeed())
		Expect(s.Get()).To(Equal(uint32(1024)))
		Expect(s.IsSettable()).To(BeFalse())

		err := s.Set(4096)
		Expect(errkind.IsKind(err, errkind.InvalidOperation)).To(BeTrue())
		Expect(s.Get()).To(Equal(uint32(1024)))
	})
})

var _ = Describe("Parameter limits (scenario 2)", func() {
	It("matches the literal end-to-end scenario", func() {
		memory.Reset()
		p, err := memory.NewParameterRange[int32]("p", 10, 10, 20)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Set(15)).To(Succeed())
		Expect(p.Get()).To(Equal(int32(15)))

		Expect(errkind.IsKind(p.Set(25), errkind.OutOfRange)).To(BeTrue())
		Expect(p.Get()).To(Equal(int32(15)))

		Expect(errkind.IsKind(p.Set(5), errkind.OutOfRange)).To(BeTrue())
		Expect(p.Get()).To(Equal(int32(15)))
	})
})

var _ = Describe("Lifecycle guard (scenario 5)", func() {
	It("matches the literal end-to-end scenario", func() {
		f := newFFTBlock("fft")

		err := f.Init()
		Expect(errkind.IsKind(err, errkind.InvalidStatics)).To(BeTrue())

		Expect(f.size.Set(1024)).To(Succeed())
		Expect(f.Init()).To(Succeed())

		done := make(chan error, 1)
		go func() { done <- f.Run() }()
		Eventually(func() block.ProcState { return f.State() }).Should(Equal(block.Running))

		err = f.Init()
		Expect(errkind.IsKind(err, errkind.InvalidStateTransition)).To(BeTrue())

		Expect(f.Stop()).To(Succeed())
		Eventually(done, time.Second).Should(Receive(BeNil()))

		err = f.Run()
		Expect(errkind.IsKind(err, errkind.InvalidStateTransition)).To(BeTrue())
	})
})
