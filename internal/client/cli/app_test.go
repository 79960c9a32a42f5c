package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/aircontrol/internal/client/config"
	"github.com/dmitrijs2005/aircontrol/internal/client/fallback"
	"github.com/dmitrijs2005/aircontrol/internal/client/geocode"
	"github.com/dmitrijs2005/aircontrol/internal/client/models"
	"github.com/dmitrijs2005/aircontrol/internal/client/services"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuth struct {
	mu       sync.Mutex
	session  *models.Session
	loginErr error
	pingErr  error
	email    string
	password string
	pings    int
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.email, f.password = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.session = &models.Session{Email: email, Name: "Ana", Role: "admin"}
	return f.session, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.session = nil
	return nil
}

func (f *fakeAuth) CurrentSession(context.Context) (*models.Session, error) { return f.session, nil }

func (f *fakeAuth) RequireLogin(context.Context) (*models.Session, error) {
	if f.session == nil {
		return nil, services.ErrNotLoggedIn
	}
	return f.session, nil
}

func (f *fakeAuth) RequireRole(ctx context.Context, roles ...string) (*models.Session, error) {
	s, err := f.RequireLogin(ctx)
	if err != nil {
		return nil, err
	}
	if !s.HasRole(roles...) {
		return nil, services.ErrForbidden
	}
	return s, nil
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

type fakeWO struct {
	src       fallback.Source
	err       error
	views     []models.WorkOrderView
	detail    *models.WorkOrderView
	counts    models.Counts
	form      models.WorkOrderForm
	created   services.CreateResult
	filter    string
	query     string
	statusID  int64
	status    string
	deletedID int64
	refs      []models.ObjectRef
	released  int
}

func (f *fakeWO) Create(_ context.Context, form models.WorkOrderForm) (services.CreateResult, fallback.Source, error) {
	f.form = form
	return f.created, f.src, f.err
}

func (f *fakeWO) List(_ context.Context, filter, query string) ([]models.WorkOrderView, fallback.Source, error) {
	f.filter, f.query = filter, query
	return f.views, f.src, f.err
}

func (f *fakeWO) Counts(context.Context) (models.Counts, fallback.Source, error) {
	return f.counts, f.src, f.err
}

func (f *fakeWO) Detail(context.Context, int64) (*models.WorkOrderView, fallback.Source, error) {
	return f.detail, f.src, f.err
}

func (f *fakeWO) SetStatus(_ context.Context, id int64, status string) (fallback.Source, error) {
	f.statusID, f.status = id, status
	return f.src, f.err
}

func (f *fakeWO) Delete(_ context.Context, id int64) (fallback.Source, error) {
	f.deletedID = id
	return f.src, f.err
}

func (f *fakeWO) PhotoURLs(_ context.Context, ids []string) ([]models.ObjectRef, error) {
	out := []models.ObjectRef{}
	for _, id := range ids {
		out = append(out, models.NewObjectRef("file:///tmp/"+id+".jpg", func() error {
			f.released++
			return nil
		}))
	}
	return out, nil
}

func (f *fakeWO) Photo(context.Context, string) (*models.PhotoBlob, error) { return nil, nil }

type fakeStaff struct {
	tech models.TechnicianForm
	user models.UserForm
	err  error
}

func (f *fakeStaff) RegisterTechnician(_ context.Context, form models.TechnicianForm) error {
	f.tech = form
	return f.err
}

func (f *fakeStaff) RegisterUser(_ context.Context, form models.UserForm) error {
	f.user = form
	return f.err
}

type fakeLookup struct {
	clients     []models.Client
	techs       []models.Technician
	invalidated int
}

func (f *fakeLookup) Clients(context.Context) []models.Client         { return f.clients }
func (f *fakeLookup) Technicians(context.Context) []models.Technician { return f.techs }
func (f *fakeLookup) ResolveLocation(_ context.Context, text string) int64 {
	for _, c := range f.clients {
		if c.DisplayText() == text {
			return c.ID
		}
	}
	return 0
}
func (f *fakeLookup) ResolveTechnician(_ context.Context, text string) int64 {
	for _, t := range f.techs {
		if t.Name == text {
			return t.ID
		}
	}
	return 0
}
func (f *fakeLookup) Invalidate() { f.invalidated++ }

type fakeGeo struct {
	point *geocode.Point
	addr  string
	err   error
}

func (f *fakeGeo) Search(context.Context, string) (*geocode.Point, error) { return f.point, f.err }
func (f *fakeGeo) Reverse(context.Context, string, string) (string, error) {
	return f.addr, f.err
}

// ---- helpers ----

type testApp struct {
	*App
	auth   *fakeAuth
	wo     *fakeWO
	staff  *fakeStaff
	lookup *fakeLookup
	geo    *fakeGeo
	out    *bytes.Buffer
}

func newTestApp(lines ...string) testApp {
	var c config.Config
	c.LoadDefaults()
	c.OnlineCheckInterval = 10 * time.Millisecond

	ta := testApp{
		auth:   &fakeAuth{},
		wo:     &fakeWO{src: fallback.Online},
		staff:  &fakeStaff{},
		lookup: &fakeLookup{},
		geo:    &fakeGeo{},
		out:    &bytes.Buffer{},
	}
	ta.App = &App{
		config:     &c,
		log:        logging.Discard(),
		auth:       ta.auth,
		workOrders: ta.wo,
		staff:      ta.staff,
		lookup:     ta.lookup,
		geocoder:   ta.geo,
		reader:     bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:        ta.out,
	}
	return ta
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

// ---- tests ----

func TestLogin(t *testing.T) {
	stubPassword(t, "secret")
	a := newTestApp("ana@example.com")

	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "ana@example.com", a.auth.email)
	assert.Equal(t, "secret", a.auth.password)
	assert.Contains(t, a.out.String(), "Welcome, Ana (admin)")
	assert.Equal(t, "(ana@example.com )", a.getStatus())
}

func TestLogin_ErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{services.ErrInvalidCredentials, "Invalid email or password."},
		{&services.AccessExpiredError{Message: "Plano expirado"}, "Plano expirado"},
		{services.ErrUnavailable, "Could not connect to the server."},
		{errors.New("login failed with status 500"), "Error: login failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			stubPassword(t, "pw")
			a := newTestApp("a@b.c")
			a.auth.loginErr = tt.err

			require.Error(t, a.Login(context.Background()))
			assert.False(t, a.isLoggedIn())
			assert.Contains(t, a.out.String(), tt.want)
		})
	}
}

func TestLogout(t *testing.T) {
	a := newTestApp()
	a.session = &models.Session{Email: "a@b.c"}
	a.auth.session = a.session

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, 1, a.lookup.invalidated)
}

func TestWhoami_ExpiredSessionLogsOut(t *testing.T) {
	a := newTestApp()
	a.session = &models.Session{Email: "a@b.c"}

	require.ErrorIs(t, a.Whoami(context.Background()), services.ErrNotLoggedIn)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, a.out.String(), "log in again")
}

func TestList(t *testing.T) {
	a := newTestApp()
	a.wo.src = fallback.Offline
	a.wo.views = []models.WorkOrderView{
		{ID: 2, Code: "OS-2025-002", LocationName: "Escola", Technician: "-", Priority: "Alta", Status: "Em Andamento", CreatedAt: "2025-06-10T14:30:00.000Z"},
	}

	require.NoError(t, a.List(context.Background(), []string{"em", "andamento", "escola", "sul"}))
	assert.Equal(t, models.StatusInProgress, a.wo.filter)
	assert.Equal(t, "escola sul", a.wo.query)

	out := a.out.String()
	assert.Contains(t, out, "OS-2025-002")
	assert.Contains(t, out, "Escola")
	assert.Contains(t, out, "(offline: local data)")
}

func TestList_NoFilterAndEmpty(t *testing.T) {
	a := newTestApp()

	require.NoError(t, a.List(context.Background(), []string{"Loja"}))
	assert.Equal(t, models.FilterAll, a.wo.filter)
	assert.Equal(t, "Loja", a.wo.query)
	assert.Contains(t, a.out.String(), "No work orders found.")
}

func TestCounts(t *testing.T) {
	a := newTestApp()
	a.wo.counts = models.Counts{Open: 2, InProgress: 1, Completed: 3}

	require.NoError(t, a.Counts(context.Background()))
	assert.Contains(t, a.out.String(), "Open: 2  In progress: 1  Completed: 3  Total: 6")
}

func TestShow(t *testing.T) {
	a := newTestApp()
	done := "2025-06-11T10:00:00.000Z"
	a.wo.detail = &models.WorkOrderView{
		ID: 5, Code: "OS-2025-005", LocationName: "Loja", Address: "Rua A", Lat: "-23.5", Lng: "-46.6",
		Technician: "João", Description: "Limpeza", Priority: "Baixa", Status: "Concluída",
		CreatedAt: "2025-06-10T14:30:00.000Z", CompletedAt: &done,
		Equipment:      []models.Equipment{{Brand: "LG", Capacity: "12000", Refrigerant: "Outro", RefrigerantOther: "R404A"}},
		Parts:          []models.Part{{Item: "Filtro", Quantity: "2"}},
		PhotoBeforeIDs: []string{"antes-1"},
	}

	require.NoError(t, a.Show(context.Background(), []string{"5"}))
	out := a.out.String()
	for _, want := range []string{"OS-2025-005", "Rua A", "João", "Completed:", "brand LG", "gas R404A", "Filtro x 2", "1 before, 0 after"} {
		assert.Contains(t, out, want)
	}
}

func TestShow_NotFoundAndBadID(t *testing.T) {
	a := newTestApp()

	require.NoError(t, a.Show(context.Background(), []string{"5"}))
	assert.Contains(t, a.out.String(), "Work order not found.")

	require.ErrorIs(t, a.Show(context.Background(), []string{"abc"}), models.ErrValidation)
	require.ErrorIs(t, a.Show(context.Background(), nil), models.ErrValidation)
}

func TestSetStatus(t *testing.T) {
	a := newTestApp()
	require.NoError(t, a.SetStatus(context.Background(), []string{"7", "concluida"}))
	assert.Equal(t, int64(7), a.wo.statusID)
	assert.Equal(t, models.StatusCompleted, a.wo.status)

	b := newTestApp("2")
	require.NoError(t, b.SetStatus(context.Background(), []string{"8"}))
	assert.Equal(t, models.StatusInProgress, b.wo.status)
}

func TestDelete(t *testing.T) {
	a := newTestApp("n")
	require.NoError(t, a.Delete(context.Background(), []string{"9"}))
	assert.Zero(t, a.wo.deletedID)
	assert.Contains(t, a.out.String(), "Cancelled.")

	b := newTestApp("y")
	b.wo.src = fallback.Offline
	require.NoError(t, b.Delete(context.Background(), []string{"9"}))
	assert.Equal(t, int64(9), b.wo.deletedID)
	assert.Contains(t, b.out.String(), "(offline: local data)")
}

func TestPhotos_ReleasedOnNextCallAndClose(t *testing.T) {
	a := newTestApp()
	a.wo.detail = &models.WorkOrderView{ID: 1, PhotoBeforeIDs: []string{"antes-1"}, PhotoAfterIDs: []string{"depois-1"}}

	require.NoError(t, a.Photos(context.Background(), []string{"1"}))
	assert.Contains(t, a.out.String(), "file:///tmp/antes-1.jpg")
	assert.Contains(t, a.out.String(), "file:///tmp/depois-1.jpg")
	assert.Zero(t, a.wo.released)

	require.NoError(t, a.Photos(context.Background(), []string{"1"}))
	assert.Equal(t, 2, a.wo.released)

	a.Close()
	assert.Equal(t, 4, a.wo.released)
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o600))

	a := newTestApp(
		"1",                // location from list
		"Maria",            // technician by name
		"Limpeza do split", // description
		"",                 // end of description
		"3",                // priority Alta
		"",                 // status default
		"Rua A, 10",        // address
		"",                 // keep latitude
		"-46.000001",       // override longitude
		"y",                // add equipment
		"PAT-1", "Sala", "LG", "12000", "S1", "SN-9",
		"2",     // inverter
		"Outro", // refrigerant
		"R404A",
		"n",           // no more equipment
		"Filtro=2",    // part
		"",            // end of parts
		photo,         // photos before
		"",            // photos after
		"portão azul", // notes
	)
	a.lookup.clients = []models.Client{{ID: 3, Name: "Loja", Address: "Rua A, 10"}}
	a.lookup.techs = []models.Technician{{ID: 6, Name: "Maria"}}
	a.geo.point = &geocode.Point{Lat: "-23.000000", Lng: "-46.000000"}
	a.wo.created = services.CreateResult{ID: 42, Code: "OS-2025-042"}

	require.NoError(t, a.Create(context.Background()))

	f := a.wo.form
	assert.Equal(t, "Loja — Rua A, 10", f.LocationText)
	assert.Equal(t, int64(3), f.ClientID)
	assert.Equal(t, "Maria", f.TechnicianText)
	assert.Equal(t, int64(6), f.TechnicianID)
	assert.Equal(t, "Limpeza do split", f.Description)
	assert.Equal(t, models.PriorityHigh, f.Priority)
	assert.Equal(t, models.StatusOpen, f.Status)
	assert.Equal(t, models.Location{Address: "Rua A, 10", Lat: "-23.000000", Lng: "-46.000001"}, f.Location)
	require.Len(t, f.Equipment, 1)
	assert.Equal(t, models.Equipment{
		AssetTag: "PAT-1", Room: "Sala", Brand: "LG", Capacity: "12000", Model: "S1", Serial: "SN-9",
		UnitType: models.UnitInverter, Refrigerant: "Outro", RefrigerantOther: "R404A",
	}, f.Equipment[0])
	assert.Equal(t, []models.Part{{Item: "Filtro", Quantity: "2"}}, f.Parts)
	assert.Equal(t, [][]byte{[]byte("jpeg")}, f.PhotosBefore)
	assert.Empty(t, f.PhotosAfter)
	assert.Equal(t, "portão azul", f.Notes)
	assert.Contains(t, a.out.String(), "Work order OS-2025-042 created.")
}

func TestCreate_OfflineMessage(t *testing.T) {
	a := newTestApp("Depósito", "", "Recarga", "", "", "", "", "", "", "n", "", "", "", "")
	a.wo.src = fallback.Offline
	a.wo.created = services.CreateResult{ID: 1, Code: "OS-2025-001"}

	require.NoError(t, a.Create(context.Background()))
	assert.Equal(t, "Depósito", a.wo.form.LocationText)
	assert.Zero(t, a.wo.form.ClientID)
	assert.Contains(t, a.out.String(), "No connection: work order saved locally as OS-2025-001.")
}

func TestCreate_MissingPhotoFile(t *testing.T) {
	a := newTestApp("x", "", "Recarga", "", "", "", "", "", "", "n", "", "/nonexistent/file.jpg")

	require.Error(t, a.Create(context.Background()))
	assert.Empty(t, a.wo.form.Description)
}

func TestAddTechnician(t *testing.T) {
	a := newTestApp("Maria", "maria@example.com", "", "")

	require.NoError(t, a.AddTechnician(context.Background()))
	assert.Equal(t, models.TechnicianForm{Name: "Maria", Email: "maria@example.com", Role: models.RoleTechnician}, a.staff.tech)
	assert.Equal(t, 1, a.lookup.invalidated)
	assert.Contains(t, a.out.String(), "Technician registered.")
}

func TestAddTechnician_EmailTaken(t *testing.T) {
	a := newTestApp("Maria", "maria@example.com", "", "")
	a.staff.err = services.ErrEmailTaken

	require.ErrorIs(t, a.AddTechnician(context.Background()), services.ErrEmailTaken)
	assert.Contains(t, a.out.String(), "already registered")
}

func TestAddUser(t *testing.T) {
	stubPassword(t, "pw")

	a := newTestApp()
	a.session = &models.Session{Role: "tecnico"}
	require.NoError(t, a.AddUser(context.Background()))
	assert.Contains(t, a.out.String(), "restricted to administrators")
	assert.Empty(t, a.staff.user.Email)

	b := newTestApp("Ana", "ana@example.com", "", "1")
	b.session = &models.Session{Role: "admin"}
	require.NoError(t, b.AddUser(context.Background()))
	assert.Equal(t, models.UserForm{Name: "Ana", Email: "ana@example.com", Password: "pw", Role: models.RoleAdmin}, b.staff.user)
}

func TestGeocodeCommands(t *testing.T) {
	a := newTestApp()
	a.geo.point = &geocode.Point{Lat: "-23.550520", Lng: "-46.633308"}
	a.geo.addr = "Rua A, 10 - Centro"

	require.NoError(t, a.Geocode(context.Background(), []string{"Av.", "Paulista"}))
	require.NoError(t, a.Reverse(context.Background(), []string{"-23.55", "-46.63"}))
	require.NoError(t, a.Geocode(context.Background(), []string{"ab"}))
	require.ErrorIs(t, a.Reverse(context.Background(), []string{"1"}), models.ErrValidation)

	out := a.out.String()
	assert.Contains(t, out, "-23.550520, -46.633308")
	assert.Contains(t, out, "Rua A, 10 - Centro")
	assert.Contains(t, out, "Usage: geocode")
}

func TestSetMode(t *testing.T) {
	a := newTestApp()

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.Mode())
	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.Mode())
}

func TestOnlineStatusWatcher(t *testing.T) {
	a := newTestApp()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	a.auth.mu.Lock()
	a.auth.pingErr = errors.New("down")
	a.auth.mu.Unlock()
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestInputEquipment_RefrigerantName(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  models.Equipment
	}{
		{
			name:  "other asks for the name",
			lines: []string{"Other", "R404A"},
			want:  models.Equipment{Refrigerant: "Outro", RefrigerantOther: "R404A"},
		},
		{
			name:  "outro asks for the name",
			lines: []string{"outro", "R290"},
			want:  models.Equipment{Refrigerant: "Outro", RefrigerantOther: "R290"},
		},
		{
			name:  "unknown type is the name",
			lines: []string{"R404A"},
			want:  models.Equipment{Refrigerant: "Outro", RefrigerantOther: "R404A"},
		},
		{
			name:  "known type",
			lines: []string{"r32"},
			want:  models.Equipment{Refrigerant: "R32"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{"y", "", "", "", "", "", "", ""}
			lines = append(lines, tt.lines...)
			lines = append(lines, "n")
			a := newTestApp(lines...)

			got, err := a.inputEquipment()
			require.NoError(t, err)
			require.Len(t, got, 1)

			tt.want.UnitType = models.UnitNormal
			assert.Equal(t, tt.want, got[0])
		})
	}
}
