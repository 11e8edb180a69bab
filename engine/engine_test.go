package engine_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/kappasdr/streamcore/block"
	"github.com/kappasdr/streamcore/engine"
	"github.com/kappasdr/streamcore/memory"
	"github.com/kappasdr/streamcore/task"
)

// counterBlock increments its own Parameter by one on every Process
// call; used to observe chain/mode scheduling from outside.
type counterBlock struct {
	*block.Block
	counter *memory.Parameter[int]
}

func newCounterBlock(name string) *counterBlock {
	b := &counterBlock{Block: block.New(name)}
	b.counter, _ = block.NewParameter[int](b.Block, "count", 0)
	return b
}

func (c *counterBlock) Init() error { return block.DefaultInit(c.Block) }
func (c *counterBlock) Run() error  { return block.DefaultRun(c.Block, c) }
func (c *counterBlock) Process() error {
	c.counter.Set(c.counter.Get() + 1)
	time.Sleep(time.Millisecond)
	return nil
}
func (c *counterBlock) Stop() error { return block.DefaultStop(c.Block) }
func (c *counterBlock) ExecuteCommand(name, _ string) (string, error) {
	return block.DefaultExecuteCommand(c.Block, name)
}

// passThrough relays one recv'd int from its input to its output each
// Process call, used to exercise chain in-order visibility.
type passThrough struct {
	*block.Block
	tag string
	log *[]string
}

func (p *passThrough) Init() error { return block.DefaultInit(p.Block) }
func (p *passThrough) Run() error  { return block.DefaultRun(p.Block, p) }
func (p *passThrough) Process() error {
	v, err := block.RecvInput[int](p.Block, "in")
	if err != nil {
		return err
	}
	*p.log = append(*p.log, p.tag)
	return block.SendOutput[int](p.Block, "out", v)
}
func (p *passThrough) Stop() error { return block.DefaultStop(p.Block) }
func (p *passThrough) ExecuteCommand(name, _ string) (string, error) {
	return block.DefaultExecuteCommand(p.Block, name)
}

var _ = Describe("Chain", func() {
	It("drives blocks strictly in insertion order within one iteration", func() {
		var log []string
		a := &passThrough{Block: block.New("a"), tag: "a", log: &log}
		bOut, _ := block.NewOutput[int](a.Block, "out")
		_ = bOut

		bBlock := &passThrough{Block: block.New("b"), tag: "b", log: &log}
		aIn, _ := block.NewInput[int](a.Block, "in")
		bIn, err := block.NewInput[int](bBlock.Block, "in")
		Expect(err).NotTo(HaveOccurred())

		Expect(block.Connect[int](a.Block, "out", bIn.Sender())).To(Succeed())
		_, err = block.NewOutput[int](bBlock.Block, "out")
		Expect(err).NotTo(HaveOccurred())

		chain := engine.NewChain("pipeline")
		chain.AddProcessor(a)
		chain.AddProcessor(bBlock)

		Expect(aIn.Send(7)).To(Succeed())
		Expect(chain.Process()).To(Succeed())

		Expect(log).To(Equal([]string{"a", "b"}))
	})
})

var _ = Describe("Mode switch atomicity (scenario 6)", func() {
	It("stops the old mode's counter before the new mode's begins, preserving its snapshot", func() {
		memory.Reset()
		taskMgr := task.New()
		taskMgr.SetUpdateInterval(5 * time.Millisecond)

		mgr := engine.NewManager(memory.Get(), taskMgr)

		// Construct each mode's blocks while the Memory Manager's
		// current index matches that mode, so each counter's
		// Parameter registers into the matching memory partition
		// (mirrors how a real application builds one mode at a time).
		memory.Get().AddMode(0)
		Expect(memory.Get().SetMode(0)).To(Succeed())
		c0 := newCounterBlock("c0")
		chain0 := engine.NewChain("chain0")
		chain0.AddProcessor(c0)
		mode0 := engine.NewMode("mode0", taskMgr)
		mode0.AddChain(chain0)
		mgr.AddMode(0, mode0)

		memory.Get().AddMode(1)
		Expect(memory.Get().SetMode(1)).To(Succeed())
		c1 := newCounterBlock("c1")
		chain1 := engine.NewChain("chain1")
		chain1.AddProcessor(c1)
		mode1 := engine.NewMode("mode1", taskMgr)
		mode1.AddChain(chain1)
		mgr.AddMode(1, mode1)

		Expect(mgr.SwitchMode(0)).To(Succeed())
		Eventually(func() int { return c0.counter.Get() }).Should(BeNumerically(">", 0))

		Expect(mgr.SwitchMode(1)).To(Succeed())
		frozen := c0.counter.Get()

		Consistently(func() int { return c0.counter.Get() }, 50*time.Millisecond).Should(Equal(frozen))
		Eventually(func() int { return c1.counter.Get() }).Should(BeNumerically(">", 0))

		raw, err := memory.Get().Serialize(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring("c0.count"))
		Expect(string(raw)).NotTo(ContainSubstring("c1.count"))
	})
})

var _ = Describe("Engine", func() {
	It("propagates the first init failure and best-effort stops the rest", func() {
		e := engine.NewEngine()

		good := newCounterBlock("good")
		Expect(e.Register("good", good)).To(Succeed())

		failing := newFailingInitBlock("failing")
		Expect(e.Register("failing", failing)).To(Succeed())

		err := e.Init()
		Expect(err).To(HaveOccurred())
		Expect(good.CheckState(block.Stopped)).To(BeTrue())
	})

	It("rejects re-registering a duplicate block name", func() {
		e := engine.NewEngine()
		b := newCounterBlock("dup")
		Expect(e.Register("dup", b)).To(Succeed())
		Expect(e.Register("dup", b)).To(HaveOccurred())
	})
})

type failingInitBlock struct {
	*block.Block
	unset *memory.Statics[int]
}

func newFailingInitBlock(name string) *failingInitBlock {
	f := &failingInitBlock{Block: block.New(name)}
	f.unset, _ = block.NewStatics[int](f.Block, "never_set")
	return f
}
func (f *failingInitBlock) Init() error    { return block.DefaultInit(f.Block) } // statics unset -> InvalidStatics
func (f *failingInitBlock) Run() error     { return block.DefaultRun(f.Block, f) }
func (f *failingInitBlock) Process() error { return block.DefaultProcess() }
func (f *failingInitBlock) Stop() error    { return block.DefaultStop(f.Block) }
func (f *failingInitBlock) ExecuteCommand(name, _ string) (string, error) {
	return block.DefaultExecuteCommand(f.Block, name)
}
