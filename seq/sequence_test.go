package seq

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/orderedseq/hooking"
	"github.com/sarchlab/orderedseq/idgen"
)

func reachable(s *Sequence) int {
	count := 0
	for ref := s.head; ref != nilRef; ref = s.pool.get(ref).next {
		count++
		Expect(count).To(BeNumerically("<=", len(s.pool.nodes)),
			"chain must not contain a cycle")
	}

	return count
}

var _ = Describe("Sequence", func() {
	var s *Sequence

	BeforeEach(func() {
		s = SequenceBuilder{}.
			WithIDGenerator(idgen.New()).
			Build("Seq")
	})

	It("should start empty", func() {
		Expect(s.Name()).To(Equal("Seq"))
		Expect(s.ID()).To(Equal("1"))
		Expect(s.Len()).To(Equal(0))
		Expect(s.Snapshot()).To(BeEmpty())
	})

	It("should insert at both ends", func() {
		s.InsertBack(1)
		s.InsertBack(2)
		s.InsertFront(0)

		Expect(s.Snapshot()).To(Equal([]int32{0, 1, 2}))
		Expect(s.Len()).To(Equal(3))
		Expect(s.String()).To(Equal("0 -> 1 -> 2 -> NULL"))
	})

	It("should remove in the middle", func() {
		s.InsertBack(0)
		s.InsertBack(1)
		s.InsertBack(2)

		v, ok := s.RemoveAt(1)

		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(1)))
		Expect(s.Snapshot()).To(Equal([]int32{0, 2}))
	})

	Context("when inserting at an index", func() {
		BeforeEach(func() {
			s.InsertBack(10)
			s.InsertBack(20)
			s.InsertBack(30)
		})

		It("should insert at the head", func() {
			s.InsertAt(5, 0)
			Expect(s.Snapshot()).To(Equal([]int32{5, 10, 20, 30}))
		})

		It("should insert in the middle", func() {
			s.InsertAt(15, 1)
			Expect(s.Snapshot()).To(Equal([]int32{10, 15, 20, 30}))
		})

		It("should insert at the length", func() {
			s.InsertAt(40, 3)
			Expect(s.Snapshot()).To(Equal([]int32{10, 20, 30, 40}))
		})

		It("should ignore an index past the length without leaking", func() {
			s.InsertAt(9, 100)

			Expect(s.Len()).To(Equal(3))
			Expect(s.pool.inUse).To(Equal(3))
			Expect(s.pool.nodes).To(HaveLen(3))
			Expect(s.Snapshot()).To(Equal([]int32{10, 20, 30}))
		})

		It("should ignore index length+1", func() {
			s.InsertAt(9, 4)
			Expect(s.Len()).To(Equal(3))
		})

		It("should ignore a negative index", func() {
			s.InsertAt(9, -1)
			Expect(s.Snapshot()).To(Equal([]int32{10, 20, 30}))
		})
	})

	It("should ignore insert at index 1 on an empty sequence", func() {
		s.InsertAt(9, 1)

		Expect(s.Len()).To(Equal(0))
		Expect(s.pool.inUse).To(Equal(0))
	})

	It("should remove from the front and the back", func() {
		s.InsertBack(1)
		s.InsertBack(2)
		s.InsertBack(3)

		v, ok := s.RemoveFront()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(1)))

		v, ok = s.RemoveBack()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(3)))

		v, ok = s.RemoveBack()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(2)))

		Expect(s.Len()).To(Equal(0))
		Expect(s.String()).To(Equal("NULL"))
	})

	It("should return the sentinel when removing from an empty sequence", func() {
		for _, remove := range []func() (int32, bool){
			s.RemoveFront,
			s.RemoveBack,
			func() (int32, bool) { return s.RemoveAt(0) },
		} {
			v, ok := remove()
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(Sentinel))
			Expect(s.Len()).To(Equal(0))
		}
	})

	It("should reject out of range removals", func() {
		s.InsertBack(1)
		s.InsertBack(2)

		for _, index := range []int{-1, 2, 3, 100} {
			v, ok := s.RemoveAt(index)
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(Sentinel))
		}

		Expect(s.Len()).To(Equal(2))
	})

	It("should remove the last element by index", func() {
		s.InsertBack(1)
		s.InsertBack(2)

		v, ok := s.RemoveAt(1)

		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(2)))
		Expect(s.Snapshot()).To(Equal([]int32{1}))
	})

	It("should search by value", func() {
		s.InsertBack(4)
		s.InsertBack(7)
		s.InsertBack(4)

		Expect(s.Contains(7)).To(BeTrue())
		Expect(s.Contains(5)).To(BeFalse())
		Expect(s.IndexOf(4)).To(Equal(0))
		Expect(s.IndexOf(7)).To(Equal(1))
		Expect(s.IndexOf(5)).To(Equal(-1))
	})

	It("should access by index", func() {
		s.InsertBack(4)
		s.InsertBack(7)

		v, ok := s.ElementAt(1)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(7)))

		for _, index := range []int{-1, 2, 50} {
			v, ok = s.ElementAt(index)
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(Sentinel))
		}
	})

	It("should tell a stored -1 from a missing value", func() {
		s.InsertBack(-1)

		v, ok := s.ElementAt(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(-1)))

		_, ok = s.ElementAt(1)
		Expect(ok).To(BeFalse())

		Expect(OrSentinel(s.RemoveFront())).To(Equal(int32(-1)))
		Expect(OrSentinel(s.RemoveFront())).To(Equal(Sentinel))
		Expect(OrSentinel(5, true)).To(Equal(int32(5)))
	})

	It("should reuse released slots", func() {
		s.InsertBack(1)
		s.InsertBack(2)
		s.InsertBack(3)
		s.RemoveAt(1)

		s.InsertFront(9)

		Expect(s.pool.nodes).To(HaveLen(3))
		Expect(s.Snapshot()).To(Equal([]int32{9, 1, 3}))
	})

	It("should free every node", func() {
		for i := int32(0); i < 5; i++ {
			s.InsertBack(i)
		}

		s.Free()

		Expect(s.Len()).To(Equal(0))
		Expect(s.pool.inUse).To(Equal(0))
		Expect(s.String()).To(Equal("NULL"))

		s.Free()
		Expect(s.Len()).To(Equal(0))

		s.InsertBack(7)
		Expect(s.Snapshot()).To(Equal([]int32{7}))
	})

	It("should panic when a node is released twice", func() {
		s.InsertBack(1)
		ref := s.head

		s.RemoveFront()

		Expect(func() { s.pool.release(ref) }).To(Panic())
	})

	It("should terminate when the capacity is exhausted", func() {
		bounded := SequenceBuilder{}.WithCapacity(2).Build("Bounded")
		bounded.InsertBack(1)
		bounded.InsertBack(2)

		Expect(bounded.Capacity()).To(Equal(2))
		Expect(func() { bounded.InsertFront(3) }).To(PanicWith(
			ContainSubstring("all 2 slots are in use")))
		Expect(bounded.Snapshot()).To(Equal([]int32{1, 2}))
	})

	It("should not allocate for a bounded no-op insert", func() {
		bounded := SequenceBuilder{}.WithCapacity(1).Build("Bounded")
		bounded.InsertBack(1)

		Expect(func() { bounded.InsertAt(2, 5) }).NotTo(Panic())
		Expect(bounded.Len()).To(Equal(1))
	})

	It("should refuse a negative capacity", func() {
		Expect(func() {
			SequenceBuilder{}.WithCapacity(-1).Build("Bad")
		}).To(Panic())
	})

	It("should build with a large capacity without reserving it", func() {
		big := SequenceBuilder{}.WithCapacity(MaxCapacity).Build("Big")
		big.InsertBack(1)
		big.InsertFront(0)

		Expect(big.Capacity()).To(Equal(MaxCapacity))
		Expect(big.Snapshot()).To(Equal([]int32{0, 1}))
		Expect(cap(big.pool.nodes)).To(BeNumerically("<=", preallocLimit))
	})

	It("should refuse a capacity that node references cannot address", func() {
		capacity := int64(MaxCapacity) + 1

		Expect(func() {
			SequenceBuilder{}.WithCapacity(int(capacity)).Build("Huge")
		}).To(Panic())
	})

	It("should keep the length equal to the reachable nodes", func() {
		r := rand.New(rand.NewSource(1))
		model := []int32{}

		for i := 0; i < 2000; i++ {
			v := int32(r.Intn(20)) - 5
			index := r.Intn(len(model)+3) - 1

			switch r.Intn(9) {
			case 0:
				s.InsertFront(v)
				model = append([]int32{v}, model...)
			case 1:
				s.InsertBack(v)
				model = append(model, v)
			case 2:
				s.InsertAt(v, index)
				if index >= 0 && index <= len(model) {
					model = append(model[:index],
						append([]int32{v}, model[index:]...)...)
				}
			case 3:
				got, ok := s.RemoveFront()
				Expect(ok).To(Equal(len(model) > 0))
				if ok {
					Expect(got).To(Equal(model[0]))
					model = model[1:]
				}
			case 4:
				got, ok := s.RemoveBack()
				Expect(ok).To(Equal(len(model) > 0))
				if ok {
					Expect(got).To(Equal(model[len(model)-1]))
					model = model[:len(model)-1]
				}
			case 5:
				got, ok := s.RemoveAt(index)
				valid := index >= 0 && index < len(model)
				Expect(ok).To(Equal(valid))
				if valid {
					Expect(got).To(Equal(model[index]))
					model = append(model[:index], model[index+1:]...)
				}
			case 6:
				got, ok := s.ElementAt(index)
				valid := index >= 0 && index < len(model)
				Expect(ok).To(Equal(valid))
				if valid {
					Expect(got).To(Equal(model[index]))
				}
			case 7:
				if s.Contains(v) {
					e, ok := s.ElementAt(s.IndexOf(v))
					Expect(ok).To(BeTrue())
					Expect(e).To(Equal(v))
				} else {
					Expect(s.IndexOf(v)).To(Equal(-1))
				}
			case 8:
				if r.Intn(50) == 0 {
					s.Free()
					model = model[:0]
				}
			}

			Expect(s.Len()).To(Equal(len(model)))
			Expect(reachable(s)).To(Equal(len(model)))
		}

		Expect(s.Snapshot()).To(Equal(model))
	})

	It("should round trip at both ends", func() {
		s.InsertBack(1)
		s.InsertBack(2)

		s.InsertFront(42)
		v, ok := s.RemoveFront()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(42)))
		Expect(s.Len()).To(Equal(2))

		s.InsertBack(43)
		v, ok = s.RemoveBack()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(int32(43)))
		Expect(s.Len()).To(Equal(2))
	})
})

var _ = Describe("Nil Sequence", func() {
	var s *Sequence

	It("should behave as an empty sequence", func() {
		Expect(s.Len()).To(Equal(0))
		Expect(s.Name()).To(BeEmpty())
		Expect(s.ID()).To(BeEmpty())
		Expect(s.Capacity()).To(Equal(0))
		Expect(s.Contains(1)).To(BeFalse())
		Expect(s.IndexOf(1)).To(Equal(-1))
		Expect(s.Snapshot()).To(BeNil())
		Expect(s.State()).To(Equal(State{}))
	})

	It("should ignore mutations", func() {
		Expect(func() {
			s.InsertFront(1)
			s.InsertBack(1)
			s.InsertAt(1, 0)
			s.SetState(State{Elements: []int32{1}})
			s.Free()
			s.Free()
		}).NotTo(Panic())
	})

	It("should return the sentinel", func() {
		for _, get := range []func() (int32, bool){
			s.RemoveFront,
			s.RemoveBack,
			func() (int32, bool) { return s.RemoveAt(0) },
			func() (int32, bool) { return s.ElementAt(0) },
		} {
			v, ok := get()
			Expect(ok).To(BeFalse())
			Expect(v).To(Equal(Sentinel))
		}
	})
})

var _ = Describe("Sequence hooks", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
		s        *Sequence
		ops      []Op
		poses    []*hooking.HookPos
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
		s = SequenceBuilder{}.WithHook(hook).Build("Hooked")
		ops = nil
		poses = nil
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	record := func(times int) {
		hook.EXPECT().Func(gomock.Any()).
			Do(func(ctx hooking.HookCtx) {
				Expect(ctx.Domain).To(BeIdenticalTo(s))
				poses = append(poses, ctx.Pos)
				ops = append(ops, ctx.Item.(Op))
			}).
			Times(times)
	}

	It("should report insertions and removals", func() {
		record(5)

		s.InsertBack(1)
		s.InsertFront(0)
		s.InsertAt(5, 2)
		s.RemoveAt(1)
		s.RemoveBack()

		Expect(poses).To(Equal([]*hooking.HookPos{
			HookPosInsert, HookPosInsert, HookPosInsert,
			HookPosRemove, HookPosRemove,
		}))
		Expect(ops).To(Equal([]Op{
			{Kind: OpInsertBack, Index: 0, Value: 1, Len: 1},
			{Kind: OpInsertFront, Index: 0, Value: 0, Len: 2},
			{Kind: OpInsertAt, Index: 2, Value: 5, Len: 3},
			{Kind: OpRemoveAt, Index: 1, Value: 1, Len: 2},
			{Kind: OpRemoveBack, Index: 1, Value: 5, Len: 1},
		}))
	})

	It("should not report no-ops", func() {
		record(0)

		s.InsertAt(1, 3)
		s.RemoveFront()
		s.RemoveAt(2)
		s.Free()
	})

	It("should report free with the released count", func() {
		record(3)

		s.InsertBack(1)
		s.InsertBack(2)
		s.Free()

		Expect(poses[2]).To(BeIdenticalTo(HookPosFree))
		Expect(ops[2]).To(Equal(Op{Kind: OpFree, Count: 2}))
		Expect(ops[2].String()).To(Equal("free released=2"))
	})

	It("should not report restoring a state", func() {
		record(0)

		s.SetState(State{Elements: []int32{1, 2}})

		Expect(s.Len()).To(Equal(2))
	})
})
