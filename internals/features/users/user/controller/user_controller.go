package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	programModel "feeportal_backend/internals/features/academics/programs/model"
	"feeportal_backend/internals/features/users/user/dto"
	"feeportal_backend/internals/features/users/user/model"
	helper "feeportal_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

/* =======================================================
   LIST / DETAIL (admin)
   ======================================================= */

func (uc *UserController) List(c *fiber.Ctx) error {
	var q dto.ListUserQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 100)

	db := uc.DB.WithContext(helper.ReqCtx(c)).Model(&model.UserModel{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(full_name,'')) LIKE ?", like, like, like)
	}
	if r := strings.TrimSpace(q.Role); r != "" {
		db = db.Where("role = ?", strings.ToLower(r))
	}
	if q.UniversityID != nil {
		db = db.Where("university_id = ?", *q.UniversityID)
	}
	if q.ProgramID != nil {
		db = db.Where("program_id = ?", *q.ProgramID)
	}
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count users")
	}
	var rows []model.UserModel
	if err := db.Order("created_at DESC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	out := make([]dto.UserResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, dto.ToUserResponse(u))
	}
	return helper.JsonList(c, "ok", out, p.Pagination(total))
}

func (uc *UserController) GetByID(c *fiber.Ctx) error {
	u, err := uc.findUser(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.ToUserResponse(*u))
}

/* =======================================================
   UPDATE (admin)
   ======================================================= */

func (uc *UserController) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
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

	u, err := uc.findUser(c)
	if err != nil {
		return err
	}
	if err := uc.DB.WithContext(helper.ReqCtx(c)).Model(u).Clauses(clause.Returning{}).Updates(updates).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "user name or email already used")
		}
		log.Printf("[ERROR] update user %s: %v", u.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}
	return helper.JsonUpdated(c, "user updated", dto.ToUserResponse(*u))
}

// Assign sets university, program, current year, enrollment date and explicit due dates.
func (uc *UserController) Assign(c *fiber.Ctx) error {
	var req dto.AssignAcademicRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	u, err := uc.findUser(c)
	if err != nil {
		return err
	}
	if !u.IsStudent() {
		return helper.JsonError(c, fiber.StatusBadRequest, "only students can be assigned to a program")
	}

	var prog programModel.ProgramModel
	if err := uc.DB.WithContext(helper.ReqCtx(c)).First(&prog, "program_id = ?", req.ProgramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonValidationError(c, map[string][]string{"program_id": {"program not found"}})
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to fetch program")
	}
	if prog.ProgramUniversityID != req.UniversityID {
		return helper.JsonValidationError(c, map[string][]string{"program_id": {"program does not belong to university"}})
	}

	fieldErrs := map[string][]string{}
	if n, ok := programModel.YearOrdinal(req.CurrentYear); !ok || n > prog.ProgramDurationYears {
		fieldErrs["current_year"] = append(fieldErrs["current_year"], "must be a year label within the program duration")
	}
	dues, err := req.ParseDueDates()
	if err != nil {
		fieldErrs["due_dates"] = append(fieldErrs["due_dates"], err.Error())
	}
	for _, d := range dues {
		if n, ok := programModel.YearOrdinal(d.Year); !ok || n > prog.ProgramDurationYears {
			fieldErrs["due_dates"] = append(fieldErrs["due_dates"], d.Year+" is not a year of this program")
		}
	}
	enrolled, err := req.ParseEnrolledAt()
	if err != nil {
		fieldErrs["enrolled_at"] = append(fieldErrs["enrolled_at"], "must be YYYY-MM-DD")
	}
	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs)
	}

	updates := map[string]interface{}{
		"university_id": req.UniversityID,
		"program_id":    req.ProgramID,
		"current_year":  req.CurrentYear,
		"due_dates":     dto.DueDatesColumn(dues),
	}
	if enrolled != nil {
		updates["enrolled_at"] = *enrolled
	}
	if err := uc.DB.WithContext(helper.ReqCtx(c)).Model(u).Clauses(clause.Returning{}).Updates(updates).Error; err != nil {
		log.Printf("[ERROR] assign user %s: %v", u.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to assign user")
	}
	log.WithFields(log.Fields{"user_id": u.ID, "program_id": req.ProgramID}).Info("[USER] academic assignment updated")
	return helper.JsonUpdated(c, "user assigned", dto.ToUserResponse(*u))
}

// SetActive activates or deactivates an account. Deactivated users are rejected by the auth middleware.
func (uc *UserController) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	if self, err := helper.GetUserIDFromToken(c); err == nil && self == id && !*req.IsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot deactivate your own account")
	}

	tx := uc.DB.WithContext(helper.ReqCtx(c)).Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("is_active", *req.IsActive)
	if tx.Error != nil {
		log.Printf("[ERROR] set active user %s: %v", id, tx.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}
	if tx.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "user not found")
	}
	return helper.JsonUpdated(c, "user status updated", fiber.Map{"id": id, "is_active": *req.IsActive})
}

/* =======================================================
   HELPERS
   ======================================================= */

func (uc *UserController) findUser(c *fiber.Ctx) (*model.UserModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	var u model.UserModel
	if err := uc.DB.WithContext(helper.ReqCtx(c)).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		log.Printf("[ERROR] fetch user %s: %v", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch user")
	}
	return &u, nil
}
