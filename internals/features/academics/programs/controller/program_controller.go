package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/academics/programs/dto"
	"feeportal_backend/internals/features/academics/programs/model"
	universityModel "feeportal_backend/internals/features/academics/universities/model"
	helper "feeportal_backend/internals/helpers"
)

type ProgramController struct {
	DB *gorm.DB
}

func NewProgramController(db *gorm.DB) *ProgramController {
	return &ProgramController{DB: db}
}

/* =========================================================
   LIST
   GET /programs?university_id=&search=&page=&per_page=
========================================================= */

func (ctl *ProgramController) List(c *fiber.Ctx) error {
	var q dto.ListProgramQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 100)

	db := ctl.DB.WithContext(helper.ReqCtx(c)).Model(&model.ProgramModel{})
	if q.UniversityID != nil {
		db = db.Where("program_university_id = ?", *q.UniversityID)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(program_name) LIKE ? OR LOWER(program_code) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count programs: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count programs")
	}

	var rows []model.ProgramModel
	if err := db.Order("program_name ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list programs: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch programs")
	}

	out := make([]dto.ProgramResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToProgramResponse(r))
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

func (ctl *ProgramController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	m, err := ctl.find(c, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.ToProgramResponse(*m))
}

/* =========================================================
   ADMIN WRITE
========================================================= */

func (ctl *ProgramController) Create(c *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	if err := req.ProgramFees.Validate(req.ProgramDurationYears); err != nil {
		return helper.JsonValidationError(c, map[string][]string{"program_fees": {err.Error()}})
	}
	if err := ctl.ensureUniversity(c, req.ProgramUniversityID); err != nil {
		return err
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "program code already exists")
		}
		log.Printf("[ERROR] create program: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create program")
	}
	return helper.JsonCreated(c, "program created", dto.ToProgramResponse(m))
}

func (ctl *ProgramController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}
	if req.IsEmpty() {
		return helper.JsonError(c, fiber.StatusBadRequest, "nothing to update")
	}

	m, err := ctl.find(c, id)
	if err != nil {
		return err
	}
	req.Apply(m)

	// shrinking the duration must not orphan fee rows
	if err := m.ProgramFees.Validate(m.ProgramDurationYears); err != nil {
		return helper.JsonValidationError(c, map[string][]string{"program_fees": {err.Error()}})
	}
	if req.ProgramUniversityID != nil {
		if err := ctl.ensureUniversity(c, m.ProgramUniversityID); err != nil {
			return err
		}
	}

	if err := ctl.DB.WithContext(helper.ReqCtx(c)).Save(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "program code already exists")
		}
		log.Printf("[ERROR] update program %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update program")
	}
	return helper.JsonUpdated(c, "program updated", dto.ToProgramResponse(*m))
}

func (ctl *ProgramController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	tx := ctl.DB.WithContext(helper.ReqCtx(c)).Delete(&model.ProgramModel{}, "program_id = ?", id)
	if tx.Error != nil {
		log.Printf("[ERROR] delete program %s: %v", id, tx.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete program")
	}
	if tx.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "program not found")
	}
	return helper.JsonDeleted(c, "program deleted", fiber.Map{"program_id": id})
}

/* =========================================================
   HELPERS
========================================================= */

func (ctl *ProgramController) find(c *fiber.Ctx, id uuid.UUID) (*model.ProgramModel, error) {
	var m model.ProgramModel
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).First(&m, "program_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "program not found")
		}
		log.Printf("[ERROR] fetch program %s: %v", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch program")
	}
	return &m, nil
}

func (ctl *ProgramController) ensureUniversity(c *fiber.Ctx, id uuid.UUID) error {
	var n int64
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).
		Model(&universityModel.UniversityModel{}).
		Where("university_id = ?", id).
		Count(&n).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to check university")
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "university not found")
	}
	return nil
}
