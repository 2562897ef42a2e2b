package storage

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cwsdash/frontend/shared/nav"
	"cwsdash/frontend/shared/validate"
	"cwsdash/frontend/shared/web"
	"cwsdash/infrastructure/aggregate"
	"cwsdash/infrastructure/audit"
	"cwsdash/infrastructure/backend"
	"cwsdash/infrastructure/store"
)

const storagePath = "/cws/storage"

// StoragePageQueryHandler shows bags in FIFO dispatch order.
func StoragePageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.StorageBags, store.Lots)
		page := web.Page(r, session, "Storage", nav.ScreenStorage, store.StorageBags)
		bags := s.StorageBags()
		data := PageData{
			Loading:    s.Loading(store.StorageBags),
			Available:  aggregate.AvailableBags(bags),
			Dispatched: aggregate.DispatchedBags(bags),
			Lots:       s.Lots(),
		}
		web.Render(w, r, StoragePage(page, data), "storage page")
	}
}

func CreateBagCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			web.RedirectError(w, r, storagePath, "invalid form data")
			return
		}
		in := backend.StorageBagInput{
			BagCode:    web.FormText(r, "bag_code"),
			WeightKg:   web.FormFloat(r, "weight_kg"),
			Moisture:   web.FormFloat(r, "moisture"),
			StoredDate: web.FormText(r, "stored_date"),
		}
		if id := web.FormID(r, "lot_id"); id != nil {
			in.LotID = *id
		}
		if err := validate.Struct(in); err != nil {
			web.RedirectError(w, r, storagePath, err.Error())
			return
		}

		created, err := web.API(client, session).CreateStorageBag(r.Context(), in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "create", EntityType: "storage_bag", EntityID: strconv.FormatInt(created.ID, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, storagePath, backend.UserMessage(err, "failed to store bag"))
			return
		}
		s.Refresh(r.Context(), store.StorageBags)
		web.Redirect(w, r, storagePath, "bag "+in.BagCode+" stored")
	}
}

// DispatchBagCommandHandler dispatches the head of the FIFO queue. Any
// other bag is refused so the oldest coffee always leaves first.
func DispatchBagCommandHandler(client *backend.Client, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		id, ok := web.URLID(r, "id")
		if !ok {
			web.RedirectError(w, r, storagePath, "invalid bag id")
			return
		}
		s.Ensure(r.Context(), store.StorageBags)
		head, ok := aggregate.NextToDispatch(s.StorageBags())
		if !ok {
			// An empty queue may be a failed earlier load; ask once more.
			s.Refresh(r.Context(), store.StorageBags)
			head, ok = aggregate.NextToDispatch(s.StorageBags())
		}
		if !ok {
			web.RedirectError(w, r, storagePath, "no bag is waiting for dispatch")
			return
		}
		if head.ID != id {
			web.RedirectError(w, r, storagePath, "dispatch bag "+head.BagCode+" first, it has been stored longest")
			return
		}

		in := backend.DispatchUpdate{Dispatched: true, DispatchedAt: time.Now().UTC().Format(time.RFC3339)}
		_, err := web.API(client, session).DispatchStorageBag(r.Context(), id, in)
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "dispatch", EntityType: "storage_bag", EntityID: strconv.FormatInt(id, 10), Detail: in, Err: err,
		})
		if err != nil {
			web.RedirectError(w, r, storagePath, backend.UserMessage(err, "failed to dispatch bag"))
			return
		}
		s.MarkDispatched(id, in.DispatchedAt[:10])
		s.Refresh(r.Context(), store.StorageBags)
		web.Redirect(w, r, storagePath, "bag "+head.BagCode+" dispatched")
	}
}

// BagLabelQueryHandler streams the printable label of one bag.
func BagLabelQueryHandler(auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		id, ok := web.URLID(r, "id")
		if !ok {
			http.Error(w, "invalid bag id", http.StatusBadRequest)
			return
		}
		s.Ensure(r.Context(), store.StorageBags)
		for _, bag := range s.StorageBags() {
			if bag.ID != id {
				continue
			}
			pdfBytes, err := renderBagLabelPDF(bag, time.Now())
			auditSvc.Record(r.Context(), session, audit.Entry{
				Action: "print_label", EntityType: "storage_bag", EntityID: strconv.FormatInt(id, 10), Err: err,
			})
			if err != nil {
				http.Error(w, "failed to build label pdf", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=bag-%d-label.pdf", id))
			_, _ = w.Write(pdfBytes)
			return
		}
		http.Error(w, "bag not found", http.StatusNotFound)
	}
}

// QueueLabelsQueryHandler prints the labels of every bag still in storage,
// in dispatch order.
func QueueLabelsQueryHandler(auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, s, ok := web.Require(w, r)
		if !ok {
			return
		}
		s.Ensure(r.Context(), store.StorageBags)
		queue := aggregate.AvailableBags(s.StorageBags())
		if len(queue) == 0 {
			web.RedirectError(w, r, storagePath, "no bags in storage")
			return
		}
		pdfBytes, err := renderBagLabelsPDF(queue, time.Now())
		auditSvc.Record(r.Context(), session, audit.Entry{
			Action: "print_labels", EntityType: "storage_bag", EntityID: strconv.Itoa(len(queue)), Err: err,
		})
		if err != nil {
			http.Error(w, "failed to build label pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=storage-labels.pdf")
		_, _ = w.Write(pdfBytes)
	}
}
