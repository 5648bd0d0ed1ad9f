package visit

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type stubLedger struct {
	pending map[uuid.UUID]int
	sent    []uuid.UUID
}

func newStubLedger() *stubLedger {
	return &stubLedger{pending: make(map[uuid.UUID]int)}
}

func (l *stubLedger) PendingCount(patientID uuid.UUID) int {
	return l.pending[patientID]
}

func (l *stubLedger) SendAll(patientID uuid.UUID) (int, error) {
	n := l.pending[patientID]
	l.pending[patientID] = 0
	l.sent = append(l.sent, patientID)
	return n, nil
}

type stubNotifier struct {
	titles []string
}

func (n *stubNotifier) Info(title, detail string)    { n.titles = append(n.titles, title) }
func (n *stubNotifier) Success(title, detail string) { n.titles = append(n.titles, title) }
func (n *stubNotifier) Warning(title, detail string) { n.titles = append(n.titles, title) }

func newTestService() (*Service, *stubLedger, *stubNotifier) {
	ledger := newStubLedger()
	notices := &stubNotifier{}
	svc := NewService(ledger, notices, nil, nil, zerolog.Nop())
	return svc, ledger, notices
}

func seedQueue(t *testing.T, svc *Service, names ...string) []*Patient {
	t.Helper()
	patients := make([]*Patient, 0, len(names))
	for _, name := range names {
		p := &Patient{Name: name, Gender: "男", Age: 30}
		if err := svc.Register(p); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
		patients = append(patients, p)
	}
	return patients
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []Patient{
		{Gender: "女", Age: 30},
		{Name: "王芳", Age: 30},
		{Name: "王芳", Gender: "女"},
		{Name: "王芳", Gender: "女", Age: 200},
	}
	for _, p := range cases {
		p := p
		if err := svc.Register(&p); !errors.Is(err, ErrValidation) {
			t.Errorf("expected validation error for %+v, got %v", p, err)
		}
	}
	if svc.Queue().WaitingCount != 0 {
		t.Error("invalid registrations must not enter the queue")
	}
}

func TestStart_SingleActiveConsultation(t *testing.T) {
	svc, _, _ := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳", "李娜")

	if _, err := svc.Start(patients[0].ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	q := svc.Queue()
	if q.Current == nil || q.Current.ID != patients[0].ID {
		t.Fatal("expected 张伟 in consultation")
	}
	if q.WaitingCount != 2 {
		t.Errorf("expected 2 waiting, got %d", q.WaitingCount)
	}

	// Starting another patient displaces the active one to the head.
	if _, err := svc.Start(patients[2].ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	q = svc.Queue()
	if q.Current.ID != patients[2].ID {
		t.Error("expected 李娜 in consultation")
	}
	if q.Waiting[0].ID != patients[0].ID {
		t.Errorf("displaced patient should sit at the queue head, head is %s", q.Waiting[0].Name)
	}
	if q.Waiting[0].State != StateWaiting {
		t.Errorf("displaced patient state = %s", q.Waiting[0].State)
	}
}

func TestStart_ActivePatientIsNoOp(t *testing.T) {
	svc, _, _ := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳")
	svc.Start(patients[0].ID)

	if _, err := svc.Start(patients[0].ID); err != nil {
		t.Fatalf("restart of active patient: %v", err)
	}
	q := svc.Queue()
	if q.Current.ID != patients[0].ID || q.WaitingCount != 1 {
		t.Errorf("no-op restart changed the queue: %+v", q)
	}
}

func TestStart_UnknownPatient(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Start(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCancel_ReturnsToQueueHead(t *testing.T) {
	svc, _, _ := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳")
	svc.Start(patients[1].ID)

	p, err := svc.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if p.ID != patients[1].ID {
		t.Error("cancel returned wrong patient")
	}
	q := svc.Queue()
	if q.Current != nil {
		t.Error("expected no active consultation")
	}
	if q.Waiting[0].ID != patients[1].ID {
		t.Error("cancelled patient should sit at the queue head")
	}

	if _, err := svc.Cancel(); !errors.Is(err, ErrNoActiveVisit) {
		t.Errorf("expected ErrNoActiveVisit, got %v", err)
	}
}

func TestComplete_GatesOnPendingOrders(t *testing.T) {
	svc, ledger, _ := newTestService()
	patients := seedQueue(t, svc, "张伟")
	svc.Start(patients[0].ID)
	ledger.pending[patients[0].ID] = 3

	_, err := svc.Complete(false)
	var pending *PendingOrdersError
	if !errors.As(err, &pending) {
		t.Fatalf("expected PendingOrdersError, got %v", err)
	}
	if pending.Count != 3 {
		t.Errorf("expected count 3, got %d", pending.Count)
	}
	// Declined completion leaves the visit open.
	if q := svc.Queue(); q.Current == nil || q.Current.ID != patients[0].ID {
		t.Fatal("declined completion must not change the visit")
	}

	// Confirming sends the drafts and completes.
	p, err := svc.Complete(true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if p.State != StateCompleted {
		t.Errorf("expected completed state, got %s", p.State)
	}
	if len(ledger.sent) != 1 || ledger.sent[0] != patients[0].ID {
		t.Errorf("expected drafts sent for patient, got %v", ledger.sent)
	}
	if q := svc.Queue(); q.Current != nil || len(q.Completed) != 1 {
		t.Errorf("unexpected queue after completion: %+v", q)
	}
}

func TestComplete_NoPendingOrders(t *testing.T) {
	svc, ledger, _ := newTestService()
	patients := seedQueue(t, svc, "张伟")
	svc.Start(patients[0].ID)

	if _, err := svc.Complete(false); err != nil {
		t.Fatalf("complete with no drafts: %v", err)
	}
	if len(ledger.sent) != 0 {
		t.Error("nothing should be sent when no drafts exist")
	}
}

func TestResume_MostRecentCompletedFirst(t *testing.T) {
	svc, _, _ := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳")

	svc.Start(patients[0].ID)
	svc.Complete(false)
	svc.Start(patients[1].ID)
	svc.Complete(false)

	p, err := svc.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if p.ID != patients[1].ID {
		t.Errorf("expected most recent visit 王芳, got %s", p.Name)
	}
	if p.State != StateInConsultation {
		t.Errorf("resumed state = %s", p.State)
	}
	if q := svc.Queue(); len(q.Completed) != 1 || q.Completed[0].ID != patients[0].ID {
		t.Errorf("unexpected completed list: %+v", q.Completed)
	}
}

func TestResume_DisplacesActivePatient(t *testing.T) {
	svc, _, _ := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳")

	svc.Start(patients[0].ID)
	svc.Complete(false)
	svc.Start(patients[1].ID)

	if _, err := svc.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	q := svc.Queue()
	if q.Current.ID != patients[0].ID {
		t.Error("expected resumed patient in consultation")
	}
	if q.Waiting[0].ID != patients[1].ID {
		t.Error("displaced patient should sit at the queue head")
	}
}

func TestResume_NothingCompleted(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Resume(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCallNext_MarksInOrder(t *testing.T) {
	svc, _, notices := newTestService()
	patients := seedQueue(t, svc, "张伟", "王芳")

	p, err := svc.CallNext()
	if err != nil || p == nil || p.ID != patients[0].ID {
		t.Fatalf("expected 张伟 called, got %v %v", p, err)
	}
	if !p.Called {
		t.Error("called flag not set")
	}

	p, _ = svc.CallNext()
	if p == nil || p.ID != patients[1].ID {
		t.Fatal("expected 王芳 called second")
	}

	p, _ = svc.CallNext()
	if p != nil {
		t.Error("expected nil when everyone is called")
	}
	last := notices.titles[len(notices.titles)-1]
	if last != "Queue" {
		t.Errorf("expected all-called notice, got %q", last)
	}
}

func TestSearch_NameAndPinyin(t *testing.T) {
	svc, _, _ := newTestService()
	svc.Load([]*Patient{
		{Name: "张伟", Gender: "男", Age: 34, Pinyin: "zw"},
		{Name: "王芳", Gender: "女", Age: 28, Pinyin: "wf"},
	})
	svc.Start(svc.Queue().Waiting[0].ID)
	svc.Complete(false)

	if got := svc.Search("张"); len(got) != 1 || got[0].Name != "张伟" {
		t.Errorf("name search failed: %v", got)
	}
	if got := svc.Search("WF"); len(got) != 1 || got[0].Name != "王芳" {
		t.Errorf("pinyin search failed: %v", got)
	}
	// Completed patients stay searchable.
	if got := svc.Search("zw"); len(got) != 1 || got[0].State != StateCompleted {
		t.Errorf("completed patient not found: %v", got)
	}
}

func TestCurrentPatientID(t *testing.T) {
	svc, _, _ := newTestService()
	if _, ok := svc.CurrentPatientID(); ok {
		t.Error("expected no active patient")
	}
	patients := seedQueue(t, svc, "张伟")
	svc.Start(patients[0].ID)
	id, ok := svc.CurrentPatientID()
	if !ok || id != patients[0].ID {
		t.Error("expected active patient id")
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	svc.Load([]*Patient{{Name: "李娜", Gender: "女", Age: 25}})

	q := svc.Queue()
	if q.WaitingCount != 1 {
		t.Fatalf("expected 1 waiting, got %d", q.WaitingCount)
	}
	p := q.Waiting[0]
	if p.ID == uuid.Nil || p.State != StateWaiting || p.RegisteredAt.IsZero() {
		t.Errorf("defaults not applied: %+v", p)
	}
}
