package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feeportal_backend/internals/features/academics/universities/dto"
	"feeportal_backend/internals/features/academics/universities/model"
	helper "feeportal_backend/internals/helpers"
)

type UniversityController struct {
	DB *gorm.DB
}

func NewUniversityController(db *gorm.DB) *UniversityController {
	return &UniversityController{DB: db}
}

/* =========================================================
   LIST (public + admin)
   GET /universities?search=&is_active=&page=&per_page=
========================================================= */

func (ctl *UniversityController) List(c *fiber.Ctx) error {
	var q dto.ListUniversityQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 100)

	db := ctl.DB.WithContext(helper.ReqCtx(c)).Model(&model.UniversityModel{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(university_name) LIKE ? OR LOWER(university_code) LIKE ?", like, like)
	}
	if q.IsActive != nil {
		db = db.Where("university_is_active = ?", *q.IsActive)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count universities: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count universities")
	}

	var rows []model.UniversityModel
	if err := db.Order("university_name ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list universities: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch universities")
	}

	out := make([]dto.UniversityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ToUniversityResponse(r))
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

func (ctl *UniversityController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var m model.UniversityModel
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).First(&m, "university_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "university not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch university")
	}
	return helper.JsonOK(c, "ok", dto.ToUniversityResponse(m))
}

/* =========================================================
   ADMIN WRITE
========================================================= */

func (ctl *UniversityController) Create(c *fiber.Ctx) error {
	var req dto.CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	m := req.ToModel()
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "university code already exists")
		}
		log.Printf("[ERROR] create university: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create university")
	}
	return helper.JsonCreated(c, "university created", dto.ToUniversityResponse(m))
}

func (ctl *UniversityController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	updates := req.BuildUpdateMap()
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "nothing to update")
	}

	var m model.UniversityModel
	if err := ctl.DB.WithContext(helper.ReqCtx(c)).First(&m, "university_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "university not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch university")
	}

	if err := ctl.DB.WithContext(helper.ReqCtx(c)).Model(&m).Clauses(clause.Returning{}).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "university code already exists")
		}
		log.Printf("[ERROR] update university %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update university")
	}
	return helper.JsonUpdated(c, "university updated", dto.ToUniversityResponse(m))
}

// Delete soft-deletes; programs and students keep their reference.
func (ctl *UniversityController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	tx := ctl.DB.WithContext(helper.ReqCtx(c)).Delete(&model.UniversityModel{}, "university_id = ?", id)
	if tx.Error != nil {
		log.Printf("[ERROR] delete university %s: %v", id, tx.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to delete university")
	}
	if tx.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "university not found")
	}
	return helper.JsonDeleted(c, "university deleted", fiber.Map{"university_id": id})
}
