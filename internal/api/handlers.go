package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/carelog/internal/models"
	"github.com/julianstephens/carelog/internal/service"
)

// pagination reads ?page and ?per_page; zero values let the service apply its defaults
func pagination(c *gin.Context) (int, int, bool) {
	var page, perPage int
	params := []struct {
		name string
		dst  *int
	}{{"page", &page}, {"per_page", &perPage}}
	for _, p := range params {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid "+p.name+": must be an integer")
			return 0, 0, false
		}
		*p.dst = v
	}
	return page, perPage, true
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func rangeQuery(c *gin.Context) service.RangeQuery {
	return service.RangeQuery{Period: c.Query("period"), From: c.Query("from"), To: c.Query("to")}
}

// Daily logs

func (s *Server) listDailyLogs(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}
	result, err := s.svc.ListDailyLogs(c.Request.Context(), currentUser(c).ID, page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result.Items, pageMeta(result))
}

func (s *Server) createDailyLog(c *gin.Context) {
	var in models.DailyLogInput
	if !bind(c, &in) {
		return
	}
	log, err := s.svc.CreateDailyLog(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, log, nil)
}

func (s *Server) getDailyLog(c *gin.Context) {
	log, err := s.svc.GetDailyLog(c.Request.Context(), currentUser(c).ID, c.Param("date"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, log, nil)
}

func (s *Server) updateDailyLog(c *gin.Context) {
	var in models.DailyLogInput
	if !bind(c, &in) {
		return
	}
	log, err := s.svc.UpdateDailyLog(c.Request.Context(), currentUser(c).ID, c.Param("date"), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, log, nil)
}

func (s *Server) deleteDailyLog(c *gin.Context) {
	if err := s.svc.DeleteDailyLog(c.Request.Context(), currentUser(c).ID, c.Param("date")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sleep logs

func (s *Server) listSleepLogs(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}
	result, err := s.svc.ListSleepLogs(c.Request.Context(), currentUser(c).ID, page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result.Items, pageMeta(result))
}

func (s *Server) createSleepLog(c *gin.Context) {
	var in models.SleepLogInput
	if !bind(c, &in) {
		return
	}
	log, err := s.svc.CreateSleepLog(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, log, nil)
}

func (s *Server) availableSleepDates(c *gin.Context) {
	dates, err := s.svc.AvailableSleepDates(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, dates, nil)
}

func (s *Server) getSleepLog(c *gin.Context) {
	log, err := s.svc.GetSleepLog(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, log, nil)
}

func (s *Server) updateSleepLog(c *gin.Context) {
	var in models.SleepLogInput
	if !bind(c, &in) {
		return
	}
	log, err := s.svc.UpdateSleepLog(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, log, nil)
}

func (s *Server) deleteSleepLog(c *gin.Context) {
	if err := s.svc.DeleteSleepLog(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Medications

func (s *Server) medicationHistory(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}
	result, err := s.svc.MedicationHistory(c.Request.Context(), currentUser(c).ID, page, perPage)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result.Items, pageMeta(result))
}

func (s *Server) createMedicationBatch(c *gin.Context) {
	var in models.MedicationBatchInput
	if !bind(c, &in) {
		return
	}
	created, err := s.svc.CreateMedicationBatch(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, created, nil)
}

func (s *Server) todayMedications(c *gin.Context) {
	log, err := s.svc.TodayMedications(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, log, nil)
}

func (s *Server) takeAllInTiming(c *gin.Context) {
	n, err := s.svc.TakeAllInTiming(c.Request.Context(), currentUser(c).ID, models.Timing(c.Param("timing")))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{"updated": n}, nil)
}

func (s *Server) medicationStats(c *gin.Context) {
	summary, err := s.svc.MedicationStats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, summary, nil)
}

func (s *Server) getMedication(c *gin.Context) {
	med, err := s.svc.GetMedication(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, med, nil)
}

func (s *Server) updateMedication(c *gin.Context) {
	var in models.MedicationUpdate
	if !bind(c, &in) {
		return
	}
	med, err := s.svc.UpdateMedication(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, med, nil)
}

type takenRequest struct {
	Taken *bool `json:"taken" binding:"required"`
}

func (s *Server) setMedicationTaken(c *gin.Context) {
	var req takenRequest
	if !bind(c, &req) {
		return
	}
	med, err := s.svc.SetMedicationTaken(c.Request.Context(), currentUser(c).ID, c.Param("id"), *req.Taken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, med, nil)
}

func (s *Server) deleteMedication(c *gin.Context) {
	if err := s.svc.DeleteMedication(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Analytics

func (s *Server) statistics(c *gin.Context) {
	result, err := s.svc.Statistics(c.Request.Context(), currentUser(c).ID, rangeQuery(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result, nil)
}

func (s *Server) chart(c *gin.Context) {
	result, err := s.svc.ChartData(c.Request.Context(), currentUser(c).ID, rangeQuery(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result, nil)
}

func (s *Server) summary(c *gin.Context) {
	result, err := s.svc.Summary(c.Request.Context(), currentUser(c).ID, rangeQuery(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result, nil)
}

func (s *Server) dashboard(c *gin.Context) {
	result, err := s.svc.Dashboard(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, result, nil)
}

// Reports

func (s *Server) listReports(c *gin.Context) {
	reports, err := s.svc.ListReports(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, reports, nil)
}

func (s *Server) generateReport(c *gin.Context) {
	var in models.ReportInput
	if !bind(c, &in) {
		return
	}
	report, err := s.svc.GenerateReport(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, report, nil)
}

func (s *Server) getReport(c *gin.Context) {
	report, err := s.svc.GetReport(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, report, nil)
}

func (s *Server) nextReport(c *gin.Context) {
	report, err := s.svc.NextReport(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, report, nil)
}

func (s *Server) deleteReport(c *gin.Context) {
	if err := s.svc.DeleteReport(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Appointments

func (s *Server) listAppointments(c *gin.Context) {
	appts, err := s.svc.ListAppointments(c.Request.Context(), currentUser(c).ID, c.Query("scope"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, appts, nil)
}

func (s *Server) createAppointment(c *gin.Context) {
	var in models.AppointmentInput
	if !bind(c, &in) {
		return
	}
	appt, err := s.svc.CreateAppointment(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, appt, nil)
}

func (s *Server) getAppointment(c *gin.Context) {
	appt, err := s.svc.GetAppointment(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, appt, nil)
}

func (s *Server) updateAppointment(c *gin.Context) {
	var in models.AppointmentInput
	if !bind(c, &in) {
		return
	}
	appt, err := s.svc.UpdateAppointment(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, appt, nil)
}

func (s *Server) deleteAppointment(c *gin.Context) {
	if err := s.svc.DeleteAppointment(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
